// Package report renders probe progress and the final summary.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hamed0406/aiprobe/internal/probe"
)

const rule = "============================================================"

var checkTitles = map[string]string{
	probe.NameHealth: "Checking server health...",
	probe.NameFile:   "Uploading image as multipart file...",
	probe.NameBase64: "Uploading image as base64 JSON...",
}

// Console prints a human-readable report. Styling is applied only when w is
// a terminal.
type Console struct {
	w io.Writer

	title   lipgloss.Style
	ok      lipgloss.Style
	fail    lipgloss.Style
	warn    lipgloss.Style
	muted   lipgloss.Style
	heading lipgloss.Style
}

func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		w:       w,
		title:   r.NewStyle().Bold(true),
		ok:      r.NewStyle().Foreground(lipgloss.Color("2")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("3")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		heading: r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
	}
}

func (c *Console) Start(backend, runID string) {
	fmt.Fprintln(c.w, rule)
	fmt.Fprintln(c.w, c.title.Render("AI DETECT INTEGRATION PROBE"))
	fmt.Fprintln(c.w, rule)
	fmt.Fprintln(c.w)
	fmt.Fprintf(c.w, "Backend: %s\n", backend)
	fmt.Fprintf(c.w, "Run:     %s\n", c.muted.Render(runID))
}

func (c *Console) CheckStarted(name string) {
	title, ok := checkTitles[name]
	if !ok {
		title = "Running " + name + "..."
	}
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, c.heading.Render(title))
}

func (c *Console) CheckFinished(res probe.CheckResult) {
	if res.Name == probe.NameHealth {
		c.health(res)
		return
	}
	c.detect(res)
}

func (c *Console) ImageMissing(path string) {
	fmt.Fprintln(c.w)
	c.line(c.warn, "⚠", fmt.Sprintf("Test image not found at %s; image checks skipped", path))
	c.detail("Provide a waste image to run the upload checks")
}

func (c *Console) Finish(sum *probe.Summary) {
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, rule)
	fmt.Fprintln(c.w, c.title.Render("SUMMARY"))
	fmt.Fprintln(c.w, rule)
	for _, r := range sum.Results {
		status := c.ok.Render("PASS")
		if !r.Success {
			status = c.fail.Render("FAIL")
		}
		fmt.Fprintf(c.w, "%-20s %s\n", r.Name, status)
	}
	fmt.Fprintln(c.w)
	fmt.Fprintln(c.w, rule)
	if sum.Passed() {
		c.line(c.ok, "✔", "ALL CHECKS PASSED")
	} else {
		c.line(c.fail, "✖", "SOME CHECKS FAILED")
	}
	fmt.Fprintln(c.w, rule)
}

func (c *Console) health(res probe.CheckResult) {
	if !res.Success {
		if res.Err != nil {
			c.line(c.fail, "✖", "Connection error: "+res.Message)
		} else {
			c.line(c.fail, "✖", capitalize(res.Message))
		}
		if res.DNS != nil {
			c.detail("DNS: " + res.DNS.Class)
		}
		return
	}
	c.line(c.ok, "✔", "Server available")
	h := res.Health
	if h == nil {
		return
	}
	c.detail("Status: " + orNA(h.Status))
	c.detail("Service: " + orNA(h.Service))
	if h.RoboflowAvailable {
		c.detail("Roboflow: " + c.ok.Render("available"))
	} else {
		c.detail("Roboflow: " + c.fail.Render("unavailable"))
	}
}

func (c *Console) detect(res probe.CheckResult) {
	in := res.Detect
	if in == nil {
		c.line(c.fail, "✖", "Error: "+res.Message)
		return
	}

	fmt.Fprintf(c.w, "Status: %d\n", in.StatusCode)
	if in.Kind == probe.KindUndecodable {
		c.line(c.fail, "✖", "Could not decode JSON")
		fmt.Fprintf(c.w, "Response text: %s\n", in.Body)
		c.strictNote(res)
		return
	}

	fmt.Fprintln(c.w, "Response received:")
	fmt.Fprintln(c.w, indentJSON(in.Body))

	switch in.Kind {
	case probe.KindClassified:
		c.line(c.ok, "✔", "Classification succeeded")
		c.detail("Category: " + orNA(in.Category))
		conf := "n/a"
		if in.Confidence != nil {
			conf = strconv.FormatFloat(*in.Confidence, 'f', -1, 64) + "%"
		}
		c.detail("Confidence: " + conf)
	case probe.KindNoDetection:
		c.line(c.warn, "⚠", "No objects detected")
		c.detail("Message: " + orNA(in.Message))
		if len(in.Suggestions) > 0 {
			c.detail("Suggestions:")
			for _, s := range in.Suggestions {
				fmt.Fprintf(c.w, "     • %s\n", s)
			}
		}
	default:
		c.line(c.fail, "✖", "Classification error")
		c.detail("Error: " + orNA(in.Error))
	}
	c.strictNote(res)
}

// strictNote explains a failed check whose backend did answer.
func (c *Console) strictNote(res probe.CheckResult) {
	if !res.Success {
		c.detail(c.muted.Render("strict mode: counted as failure"))
	}
}

func (c *Console) line(style lipgloss.Style, icon, msg string) {
	fmt.Fprintf(c.w, "%s %s\n", style.Render(icon), msg)
}

func (c *Console) detail(msg string) {
	fmt.Fprintf(c.w, "   - %s\n", msg)
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// indentJSON pretty-prints body, or returns it unchanged if it cannot.
func indentJSON(body string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(body), "", "  "); err != nil {
		return body
	}
	return buf.String()
}
