package dashscope

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned before any network attempt when the client has
// no credential configured.
var ErrMissingAPIKey = errors.New("dashscope: api key not configured")

// ErrEmptyCompletion is returned when the response shape is recognized but
// the text payload is blank.
var ErrEmptyCompletion = errors.New("dashscope: model returned an empty completion")

// StatusError reports a non-success HTTP response. The raw body is carried
// verbatim so failures are diagnosable without reproduction.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dashscope: unexpected status %d: %s", e.StatusCode, e.Body)
}

// ShapeError reports a response body in which no known field path held a text
// payload. Dump is a truncated pretty-printed rendering of the body.
type ShapeError struct {
	Dump string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("dashscope: no text payload found in response: %s", e.Dump)
}
