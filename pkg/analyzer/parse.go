package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/calboard/calboard/pkg/gcal"
)

// UnparsableOutputError marks model output that survived the request but is
// not the promised JSON. The raw text is kept so callers can show it instead
// of a bare error.
type UnparsableOutputError struct {
	Raw string
	Err error
}

func (e *UnparsableOutputError) Error() string {
	return fmt.Sprintf("model output is not valid JSON: %v", e.Err)
}

func (e *UnparsableOutputError) Unwrap() error {
	return e.Err
}

// StripFences removes a surrounding markdown code fence, with or without a
// language tag, before JSON parsing. Models add these despite being told not
// to.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimPrefix(s, "JSON")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseEvent decodes the model's extraction into an event shell. The shape
// mirrors the remote calendar event, so a successful parse can be poured
// straight into a draft form.
func ParseEvent(raw string) (*gcal.Event, error) {
	cleaned := StripFences(raw)
	var ev gcal.Event
	if err := json.Unmarshal([]byte(cleaned), &ev); err != nil {
		return nil, &UnparsableOutputError{Raw: raw, Err: err}
	}
	return &ev, nil
}
