package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func TestSlack_OK(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		got = payload["text"]
		w.WriteHeader(200)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	if s == nil {
		t.Fatal("expected slack client")
	}
	err := s.Send(context.Background(), "AI probe passed", "health               PASS")
	if err != nil {
		t.Fatalf("send err: %v", err)
	}
	if !strings.HasPrefix(got, "*AI probe passed*") || !strings.Contains(got, "health               PASS") {
		t.Fatalf("payload not as expected: %q", got)
	}
}

func TestSlack_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	err := s.Send(context.Background(), "X", "Y")
	if err == nil {
		t.Fatalf("expected error on non-2xx")
	}
}

func TestNewSlack_EmptyWebhookDisabled(t *testing.T) {
	if NewSlack("") != nil {
		t.Fatalf("expected nil for empty webhook")
	}
}

type failing struct{ err error }

func (f failing) Send(context.Context, string, string) error { return f.err }

func TestMulti_CombinesErrors(t *testing.T) {
	e1, e2 := errors.New("one"), errors.New("two")
	m := Multi{failing{e1}, nil, Log{Logger: zap.NewNop()}, failing{e2}}

	err := m.Send(context.Background(), "t", "x")
	if err == nil {
		t.Fatalf("expected combined error")
	}
	if errs := multierr.Errors(err); len(errs) != 2 {
		t.Fatalf("want 2 errors, got %v", errs)
	}
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("combined error should wrap both: %v", err)
	}

	if err := (Multi{Log{}}).Send(context.Background(), "t", "x"); err != nil {
		t.Fatalf("log notifier should not fail: %v", err)
	}
}
