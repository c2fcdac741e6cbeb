package openai

import (
	"encoding/json"
	"errors"

	"github.com/tmc/langchaingo/llms/openai"
)

// clientEmptyResponse is the message langchaingo's internal client returns
// when a response carries no choices or no embedding data. The sentinel
// itself lives in an internal package, so it is matched by text.
const clientEmptyResponse = "empty response"

// isEmptyResponse reports whether err means the service answered without
// any choices or embedding data.
func isEmptyResponse(err error) bool {
	if errors.Is(err, openai.ErrEmptyResponse) {
		return true
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if e.Error() == clientEmptyResponse {
			return true
		}
	}
	return false
}

// isMalformedEmbedding reports whether err means the embedding response
// decoded to something other than one numeric sequence per input.
func isMalformedEmbedding(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr) || errors.Is(err, openai.ErrUnexpectedResponseLength)
}
