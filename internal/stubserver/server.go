// Package stubserver serves the health and detect routes of the
// classification backend with canned answers, so the probe can be exercised
// without the real service.
package stubserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/aiprobe/internal/probe"
)

// Outcome selects which detect response shape the stub returns.
type Outcome string

const (
	OutcomeClassified  Outcome = "classified"
	OutcomeNoDetection Outcome = "no_detection"
	OutcomeError       Outcome = "error"
)

const maxUpload = 20 << 20

func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(strings.ToLower(strings.TrimSpace(s))); o {
	case OutcomeClassified, OutcomeNoDetection, OutcomeError:
		return o, nil
	}
	return "", fmt.Errorf("unknown stub outcome %q", s)
}

type Server struct {
	Logger     *zap.Logger
	Outcome    Outcome
	Category   string
	Confidence float64

	mu      sync.Mutex
	last    []byte
	uploads int
}

func NewServer(l *zap.Logger, outcome Outcome) *Server {
	return &Server{Logger: l, Outcome: outcome, Category: "plastic", Confidence: 92}
}

// Router mounts the routes under prefix ("" or "/api", matching the base URL
// the probe is pointed at).
func (s *Server) Router(prefix string) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	routes := func(r chi.Router) {
		r.Get(probe.HealthPath, s.handleHealth)
		r.Post(probe.DetectPath, s.handleDetect)
	}
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		routes(r)
	} else {
		r.Route(prefix, routes)
	}
	return r
}

// LastUpload returns a copy of the most recently decoded image and the number
// of uploads seen.
func (s *Server) LastUpload() ([]byte, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.last...), s.uploads
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "ok",
		"service":            "aiprobe-stub",
		"roboflow_available": true,
	})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	img, via, err := readImage(r)
	if err != nil {
		s.Logger.Info("stub_bad_upload", zap.Error(err), zap.String("request_id", r.Header.Get(probe.RequestIDHeader)))
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	s.mu.Lock()
	s.last = img
	s.uploads++
	s.mu.Unlock()

	s.Logger.Info("stub_upload",
		zap.String("via", via),
		zap.Int("bytes", len(img)),
		zap.String("sniffed", http.DetectContentType(img)),
		zap.String("outcome", string(s.Outcome)),
		zap.String("request_id", r.Header.Get(probe.RequestIDHeader)),
	)

	switch s.Outcome {
	case OutcomeNoDetection:
		writeJSON(w, http.StatusOK, map[string]any{
			"success":      false,
			"no_detection": true,
			"message":      "No objects were detected in the image",
			"suggestions": []string{
				"Center the object in the frame",
				"Use better lighting",
				"Move closer to the object",
			},
		})
	case OutcomeError:
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"success": false,
			"error":   "classification model unavailable",
		})
	default:
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"clasificacion_principal": map[string]any{
				"categoria": s.Category,
				"confianza": s.Confidence,
			},
			"bytes_received": len(img),
		})
	}
}

// readImage accepts the multipart field or the base64 JSON body.
func readImage(r *http.Request) ([]byte, string, error) {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, "", errors.New("missing or invalid content type")
	}

	switch mt {
	case "multipart/form-data":
		f, _, err := r.FormFile(probe.ImageField)
		if err != nil {
			return nil, "", fmt.Errorf("field %q is required", probe.ImageField)
		}
		defer f.Close()
		b, err := io.ReadAll(f)
		if err != nil {
			return nil, "", err
		}
		return b, "multipart", nil
	case "application/json":
		var req probe.DetectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, "", fmt.Errorf("invalid JSON body: %w", err)
		}
		if req.Imagen == "" {
			return nil, "", fmt.Errorf("field %q is required", probe.ImageField)
		}
		b, err := probe.DecodeImage(req.Imagen)
		if err != nil {
			return nil, "", fmt.Errorf("invalid base64 image: %w", err)
		}
		return b, "base64", nil
	}
	return nil, "", fmt.Errorf("unsupported content type %q", mt)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
