package report

import (
	"encoding/json"
	"io"

	"github.com/hamed0406/aiprobe/internal/probe"
)

// JSON stays silent during the run and writes one document at Finish.
type JSON struct {
	w            io.Writer
	imageMissing string
}

func NewJSON(w io.Writer) *JSON {
	return &JSON{w: w}
}

type jsonDocument struct {
	*probe.Summary
	Passed       bool   `json:"passed"`
	ExitCode     int    `json:"exit_code"`
	ImageMissing string `json:"image_missing,omitempty"`
}

func (j *JSON) Start(string, string)            {}
func (j *JSON) CheckStarted(string)             {}
func (j *JSON) CheckFinished(probe.CheckResult) {}
func (j *JSON) ImageMissing(path string)        { j.imageMissing = path }

func (j *JSON) Finish(sum *probe.Summary) {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(jsonDocument{
		Summary:      sum,
		Passed:       sum.Passed(),
		ExitCode:     sum.ExitCode(),
		ImageMissing: j.imageMissing,
	})
}
