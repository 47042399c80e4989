package probe

import (
	"strings"
	"testing"
)

func TestSummary_RecordOnce(t *testing.T) {
	var s Summary
	if err := s.Record(CheckResult{Name: NameHealth, Success: true}); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := s.Record(CheckResult{Name: NameHealth, Success: false}); err == nil {
		t.Fatalf("expected duplicate record to be rejected")
	}
	if len(s.Results) != 1 || !s.Results[0].Success {
		t.Fatalf("duplicate should not overwrite: %+v", s.Results)
	}
	if _, ok := s.Lookup(NameFile); ok {
		t.Fatalf("file was never recorded")
	}
}

func TestSummary_ExitCode(t *testing.T) {
	s := Summary{Backend: "http://b"}
	_ = s.Record(CheckResult{Name: NameHealth, Success: true})
	if s.ExitCode() != 0 || !s.Passed() {
		t.Fatalf("all passed should exit 0")
	}
	_ = s.Record(CheckResult{Name: NameFile, Success: false})
	if s.ExitCode() != 1 || s.Failed() != 1 {
		t.Fatalf("one failure should exit 1, got %d", s.ExitCode())
	}
	if !strings.Contains(s.Headline(), "1 of 2") {
		t.Fatalf("unexpected headline %q", s.Headline())
	}
	text := s.Text()
	if !strings.Contains(text, "health               PASS") || !strings.Contains(text, "file                 FAIL") {
		t.Fatalf("unexpected text:\n%s", text)
	}
}
