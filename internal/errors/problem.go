package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ProblemDetails implements RFC 7807 problem details for HTTP APIs
type ProblemDetails struct {
	Type     string                 `json:"type"`
	Title    string                 `json:"title"`
	Status   int                    `json:"status"`
	Detail   string                 `json:"detail,omitempty"`
	Instance string                 `json:"instance,omitempty"`
	TraceID  string                 `json:"trace_id,omitempty"`
	Errors   map[string]interface{} `json:"-"`
}

// NewProblem creates a new problem details instance
func NewProblem(status int, title, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:   fmt.Sprintf("https://vinstats.app/errors/%s", problemSlug(status)),
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

// problemSlug maps a status code to a stable type slug.
func problemSlug(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad-request"
	case http.StatusNotFound:
		return "not-found"
	case http.StatusMethodNotAllowed:
		return "method-not-allowed"
	case http.StatusTooManyRequests:
		return "rate-limited"
	case http.StatusServiceUnavailable:
		return "service-unavailable"
	default:
		return "internal-error"
	}
}

// Error implements the error interface
func (p *ProblemDetails) Error() string {
	return p.Title
}

// WithInstance sets the instance URI for the problem
func (p *ProblemDetails) WithInstance(instance string) *ProblemDetails {
	p.Instance = instance
	return p
}

// WithTraceID attaches the request trace ID
func (p *ProblemDetails) WithTraceID(traceID string) *ProblemDetails {
	p.TraceID = traceID
	return p
}

// WithExtension adds a custom extension member to the problem
func (p *ProblemDetails) WithExtension(key string, value interface{}) *ProblemDetails {
	if p.Errors == nil {
		p.Errors = make(map[string]interface{})
	}
	p.Errors[key] = value
	return p
}

// MarshalJSON flattens extension members into the top-level object per RFC 7807
func (p *ProblemDetails) MarshalJSON() ([]byte, error) {
	type alias ProblemDetails
	base, err := json.Marshal((*alias)(p))
	if err != nil {
		return nil, err
	}
	if len(p.Errors) == 0 {
		return base, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(base, &m); err != nil {
		return nil, err
	}
	for k, v := range p.Errors {
		m[k] = v
	}
	return json.Marshal(m)
}

// Render implements the chi render.Renderer interface. It writes the full
// response itself so the problem+json content type is preserved.
func (p *ProblemDetails) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	return json.NewEncoder(w).Encode(p)
}
