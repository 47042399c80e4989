package probe

import (
	"fmt"
	"strings"
)

// Summary is the per-run record of check outcomes, in execution order.
type Summary struct {
	RunID   string        `json:"run_id"`
	Backend string        `json:"backend"`
	Results []CheckResult `json:"results"`
}

// Record appends r unless a result with the same name was already recorded.
func (s *Summary) Record(r CheckResult) error {
	for _, have := range s.Results {
		if have.Name == r.Name {
			return fmt.Errorf("check %q already recorded", r.Name)
		}
	}
	s.Results = append(s.Results, r)
	return nil
}

// Lookup returns the recorded result for name.
func (s *Summary) Lookup(name string) (CheckResult, bool) {
	for _, r := range s.Results {
		if r.Name == name {
			return r, true
		}
	}
	return CheckResult{}, false
}

// Passed reports whether every recorded check succeeded.
func (s *Summary) Passed() bool {
	for _, r := range s.Results {
		if !r.Success {
			return false
		}
	}
	return true
}

func (s *Summary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if !r.Success {
			n++
		}
	}
	return n
}

// ExitCode is 0 when all recorded checks passed, 1 otherwise.
func (s *Summary) ExitCode() int {
	if s.Passed() {
		return 0
	}
	return 1
}

// Headline is a one-line verdict, used as the notification title.
func (s *Summary) Headline() string {
	if s.Passed() {
		return fmt.Sprintf("AI probe passed (%d/%d)", len(s.Results), len(s.Results))
	}
	return fmt.Sprintf("AI probe failed (%d of %d checks failed)", s.Failed(), len(s.Results))
}

// Text renders one "name PASS|FAIL" line per check.
func (s *Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Backend: %s\n", s.Backend)
	for _, r := range s.Results {
		status := "PASS"
		if !r.Success {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "%-20s %s\n", r.Name, status)
	}
	return strings.TrimRight(b.String(), "\n")
}
