package probe

import (
	"github.com/tidwall/gjson"
)

// Kind is the shape a detect response was recognized as.
type Kind string

const (
	KindClassified  Kind = "classified"
	KindNoDetection Kind = "no_detection"
	KindError       Kind = "error"
	KindUndecodable Kind = "undecodable"
)

// Interpretation is what the probe read out of a detect response. Fields the
// backend did not send stay empty.
type Interpretation struct {
	Kind        Kind     `json:"kind"`
	StatusCode  int      `json:"status_code"`
	Category    string   `json:"category,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
	Message     string   `json:"message,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	Error       string   `json:"error,omitempty"`
	Body        string   `json:"body,omitempty"`
}

// Interpret classifies a detect response body. It never fails: a body that is
// not a JSON object comes back as KindUndecodable with the raw text kept.
func Interpret(statusCode int, body []byte) Interpretation {
	in := Interpretation{StatusCode: statusCode, Body: string(body)}

	if !gjson.ValidBytes(body) {
		in.Kind = KindUndecodable
		return in
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		in.Kind = KindUndecodable
		return in
	}

	switch {
	case truthy(doc.Get("success")):
		in.Kind = KindClassified
		in.Category = doc.Get("clasificacion_principal.categoria").String()
		if c := doc.Get("clasificacion_principal.confianza"); c.Exists() && c.Type != gjson.Null {
			v := c.Float()
			in.Confidence = &v
		}
	case truthy(doc.Get("no_detection")):
		in.Kind = KindNoDetection
		in.Message = doc.Get("message").String()
		if s := doc.Get("suggestions"); s.IsArray() {
			s.ForEach(func(_, v gjson.Result) bool {
				in.Suggestions = append(in.Suggestions, v.String())
				return true
			})
		}
	default:
		in.Kind = KindError
		in.Error = doc.Get("error").String()
	}
	return in
}

// truthy treats false, 0, "", null, [] and {} (and absent keys) as false.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		n := 0
		r.ForEach(func(_, _ gjson.Result) bool {
			n++
			return false
		})
		return n > 0
	default:
		return false
	}
}
