package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/aiprobe/internal/probe"
)

func floatp(f float64) *float64 { return &f }

func TestConsole_HealthSuccess(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.CheckStarted(probe.NameHealth)
	c.CheckFinished(probe.CheckResult{
		Name:    probe.NameHealth,
		Success: true,
		Health:  &probe.HealthInfo{Status: "ok", Service: "waste-ai", RoboflowAvailable: true},
	})

	out := buf.String()
	assert.Contains(t, out, "Checking server health...")
	assert.Contains(t, out, "Server available")
	assert.Contains(t, out, "- Status: ok")
	assert.Contains(t, out, "- Service: waste-ai")
	assert.Contains(t, out, "- Roboflow: available")
}

func TestConsole_HealthFailures(t *testing.T) {
	tests := []struct {
		name   string
		result probe.CheckResult
		want   []string
	}{
		{
			name:   "bad status",
			result: probe.CheckResult{Name: probe.NameHealth, StatusCode: 500, Message: "server returned status 500"},
			want:   []string{"Server returned status 500"},
		},
		{
			name: "transport",
			result: probe.CheckResult{
				Name:    probe.NameHealth,
				Message: "probe.health: connection refused",
				Err:     errors.New("connection refused"),
				DNS:     &probe.DNSStatus{Class: probe.DNSNXDomain},
			},
			want: []string{"Connection error: probe.health: connection refused", "- DNS: NXDOMAIN"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewConsole(&buf).CheckFinished(tt.result)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestConsole_DetectShapes(t *testing.T) {
	tests := []struct {
		name   string
		result probe.CheckResult
		want   []string
		absent []string
	}{
		{
			name: "classified",
			result: probe.CheckResult{Name: probe.NameFile, Success: true, Detect: &probe.Interpretation{
				Kind: probe.KindClassified, StatusCode: 200, Category: "plastic", Confidence: floatp(92),
				Body: `{"success":true}`,
			}},
			want: []string{"Uploading image as multipart file...", "Status: 200", "Classification succeeded",
				"- Category: plastic", "- Confidence: 92%", `"success": true`},
			absent: []string{"strict mode"},
		},
		{
			name: "no detection",
			result: probe.CheckResult{Name: probe.NameBase64, Success: true, Detect: &probe.Interpretation{
				Kind: probe.KindNoDetection, StatusCode: 200, Message: "nothing", Suggestions: []string{"closer"},
				Body: `{}`,
			}},
			want: []string{"Uploading image as base64 JSON...", "No objects detected", "- Message: nothing",
				"- Suggestions:", "• closer"},
		},
		{
			name: "error",
			result: probe.CheckResult{Name: probe.NameFile, Success: false, Detect: &probe.Interpretation{
				Kind: probe.KindError, StatusCode: 502, Error: "model offline", Body: `{}`,
			}},
			want: []string{"Classification error", "- Error: model offline", "strict mode: counted as failure"},
		},
		{
			name: "undecodable",
			result: probe.CheckResult{Name: probe.NameFile, Success: true, Detect: &probe.Interpretation{
				Kind: probe.KindUndecodable, StatusCode: 502, Body: "<h1>Bad Gateway</h1>",
			}},
			want:   []string{"Could not decode JSON", "Response text: <h1>Bad Gateway</h1>"},
			absent: []string{"Response received"},
		},
		{
			name:   "transport",
			result: probe.CheckResult{Name: probe.NameBase64, Message: "probe.detect.base64: timeout", Err: errors.New("timeout")},
			want:   []string{"Error: probe.detect.base64: timeout"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := NewConsole(&buf)
			c.CheckStarted(tt.result.Name)
			c.CheckFinished(tt.result)
			out := buf.String()
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, out, a)
			}
		})
	}
}

func TestConsole_Summary(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	sum := &probe.Summary{Backend: "http://b"}
	require.NoError(t, sum.Record(probe.CheckResult{Name: probe.NameHealth, Success: true}))
	require.NoError(t, sum.Record(probe.CheckResult{Name: probe.NameFile, Success: false}))

	c.Finish(sum)
	out := buf.String()

	assert.Contains(t, out, "SUMMARY")
	assert.Contains(t, out, "health               PASS")
	assert.Contains(t, out, "file                 FAIL")
	assert.NotContains(t, out, "base64")
	assert.Contains(t, out, "SOME CHECKS FAILED")
	assert.Equal(t, 1, strings.Count(out, "health"))
}

func TestConsole_ImageMissing(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf).ImageMissing("test_waste_image.jpg")
	assert.Contains(t, buf.String(), "Test image not found at test_waste_image.jpg")
}

func TestJSON_WritesOneDocument(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSON(&buf)
	j.Start("http://b", "r1")
	j.CheckStarted(probe.NameHealth)
	res := probe.CheckResult{Name: probe.NameHealth, Success: false, StatusCode: 500, Message: "server returned status 500"}
	j.CheckFinished(res)
	j.ImageMissing("img.jpg")
	assert.Empty(t, buf.String(), "nothing is written before Finish")

	sum := &probe.Summary{RunID: "r1", Backend: "http://b"}
	require.NoError(t, sum.Record(res))
	j.Finish(sum)

	var doc struct {
		RunID        string `json:"run_id"`
		Backend      string `json:"backend"`
		Passed       bool   `json:"passed"`
		ExitCode     int    `json:"exit_code"`
		ImageMissing string `json:"image_missing"`
		Results      []struct {
			Name       string `json:"name"`
			Success    bool   `json:"success"`
			StatusCode int    `json:"status_code"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "r1", doc.RunID)
	assert.False(t, doc.Passed)
	assert.Equal(t, 1, doc.ExitCode)
	assert.Equal(t, "img.jpg", doc.ImageMissing)
	require.Len(t, doc.Results, 1)
	assert.Equal(t, 500, doc.Results[0].StatusCode)
}
