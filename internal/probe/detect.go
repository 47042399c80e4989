package probe

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hamed0406/aiprobe/internal/logging"
)

// ImageField is the form field and JSON key the detect route reads the image from.
const ImageField = "imagen"

// DetectRequest is the JSON body of a base64 upload.
type DetectRequest struct {
	Imagen string `json:"imagen"`
}

// UploadMode selects how the image travels to the detect route.
type UploadMode string

const (
	UploadMultipart UploadMode = NameFile
	UploadBase64    UploadMode = NameBase64
)

type DetectChecker struct {
	Client    *http.Client
	Mode      UploadMode
	ImagePath string
	Timeout   time.Duration
	RunID     string

	// Strict makes the result follow the interpreted outcome. Off, the check
	// passes whenever the backend answered at all.
	Strict bool
}

func NewDetectChecker(client *http.Client, mode UploadMode, imagePath string, timeout time.Duration, runID string) *DetectChecker {
	return &DetectChecker{
		Client:    client,
		Mode:      mode,
		ImagePath: imagePath,
		Timeout:   timeout,
		RunID:     runID,
	}
}

func (d *DetectChecker) Check(ctx context.Context, target string) CheckResult {
	name := string(d.Mode)
	op := "probe.detect." + name

	body, contentType, err := d.buildBody()
	if err != nil {
		err = logging.NewOperationError(op, d.RunID, err)
		return CheckResult{Name: name, Success: false, Message: err.Error(), Err: err}
	}

	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint(target, DetectPath), body)
	if err != nil {
		err = logging.NewOperationError(op, d.RunID, err)
		return CheckResult{Name: name, Success: false, Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	if d.RunID != "" {
		req.Header.Set(RequestIDHeader, d.RunID)
	}

	resp, err := d.Client.Do(req)
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		err = logging.NewOperationError(op, d.RunID, err)
		return CheckResult{Name: name, Success: false, Message: err.Error(), LatencyMS: latency, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		err = logging.NewOperationError(op+".read_body", d.RunID, err)
		return CheckResult{Name: name, Success: false, Message: err.Error(),
			StatusCode: resp.StatusCode, LatencyMS: latency, Err: err}
	}

	in := Interpret(resp.StatusCode, raw)
	success := true
	if d.Strict {
		success = in.Kind == KindClassified
	}
	return CheckResult{
		Name:       name,
		Success:    success,
		Message:    resp.Status,
		StatusCode: resp.StatusCode,
		LatencyMS:  latency,
		Detect:     &in,
	}
}

func (d *DetectChecker) buildBody() (io.Reader, string, error) {
	if d.Mode == UploadBase64 {
		return base64Body(d.ImagePath)
	}
	return multipartBody(d.ImagePath)
}

// multipartBody streams the file into a form under ImageField. The file is
// closed before returning.
func multipartBody(path string) (io.Reader, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(ImageField, filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func base64Body(path string) (io.Reader, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	b, err := json.Marshal(DetectRequest{Imagen: EncodeImage(data)})
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(b), "application/json", nil
}

// EncodeImage is standard, padded base64.
func EncodeImage(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeImage reverses EncodeImage.
func DecodeImage(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
