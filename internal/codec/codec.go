// Package codec implements the reversible transform between UTF-8 text and the
// base64 form the GitHub Contents API uses to carry file content in JSON.
package codec

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeError indicates a transport payload that is not valid base64.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed base64 payload: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode converts a UTF-8 text document into its base64 transport form.
func Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// Decode converts a base64 transport payload back into UTF-8 text.
// The API line-wraps long payloads, so embedded line breaks are stripped
// before decoding. Malformed input returns a *DecodeError.
func Decode(s string) (string, error) {
	s = strings.NewReplacer("\n", "", "\r", "").Replace(s)

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", &DecodeError{Err: err}
	}

	return string(data), nil
}
