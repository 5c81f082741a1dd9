package httputil

import (
	"encoding/json"
	"net/http"
)

// problemTypes maps the statuses the hierarchy API returns to RFC 7807 type URIs
var problemTypes = map[int]string{
	http.StatusBadRequest:          "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.1",
	http.StatusUnauthorized:        "https://datatracker.ietf.org/doc/html/rfc7235#section-3.1",
	http.StatusForbidden:           "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.3",
	http.StatusNotFound:            "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.4",
	http.StatusConflict:            "https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.8",
	http.StatusUnprocessableEntity: "https://datatracker.ietf.org/doc/html/rfc4918#section-11.2",
	http.StatusInsufficientStorage: "https://datatracker.ietf.org/doc/html/rfc4918#section-11.5",
	http.StatusInternalServerError: "https://datatracker.ietf.org/doc/html/rfc7231#section-6.6.1",
	http.StatusServiceUnavailable:  "https://datatracker.ietf.org/doc/html/rfc7231#section-6.6.4",
}

// ProblemDetail is an RFC 7807 problem. Extra members (folder_id, quota, ...)
// are flattened into the top-level object.
type ProblemDetail struct {
	Type   string
	Title  string
	Status int
	Detail string
	Extra  map[string]any
}

// MarshalJSON flattens Extra next to the standard members
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extra)+4)
	for k, v := range p.Extra {
		m[k] = v
	}
	m["type"] = p.Type
	m["title"] = p.Title
	m["status"] = p.Status
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	return json.Marshal(m)
}

// NewProblem builds a problem for status with the matching type URI
func NewProblem(status int, detail string) ProblemDetail {
	typ, ok := problemTypes[status]
	if !ok {
		typ = "about:blank"
	}
	return ProblemDetail{Type: typ, Title: http.StatusText(status), Status: status, Detail: detail}
}

// RespondJSON marshals data before writing headers so an encoding failure
// still produces a clean 500.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	write(w, status, "application/json", payload)
}

// RespondError writes an RFC 7807 problem response
func RespondError(w http.ResponseWriter, status int, detail string) {
	RespondProblem(w, NewProblem(status, detail))
}

// RespondErrorWithExtras writes a problem response carrying extra members
func RespondErrorWithExtras(w http.ResponseWriter, status int, detail string, extras map[string]any) {
	p := NewProblem(status, detail)
	p.Extra = extras
	RespondProblem(w, p)
}

// RespondProblem writes p as application/problem+json
func RespondProblem(w http.ResponseWriter, p ProblemDetail) {
	payload, err := json.Marshal(p)
	if err != nil {
		write(w, http.StatusInternalServerError, "text/plain", []byte("internal server error"))
		return
	}
	write(w, p.Status, "application/problem+json", payload)
}

func write(w http.ResponseWriter, status int, contentType string, payload []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
