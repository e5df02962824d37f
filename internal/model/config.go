package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
)

// VIPState is the on/off toggle of a config document. The remote format
// stores it as the sentinel strings "开" (on) and "关" (off).
type VIPState string

const (
	VIPOn  VIPState = "开"
	VIPOff VIPState = "关"
)

// ConfigDocument is the editable shape of one remote app config. Field order
// matches the remote JSON layout and must not be rearranged.
type ConfigDocument struct {
	VIP          VIPState  `json:"VIP"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	EnterPackage string    `json:"enterPackage"`
	LeftURL      string    `json:"leftUrl"`
	RightURL     string    `json:"rightUrl"`
	Licenses     []License `json:"licenses"`
}

// License grants one id access until an expiry date encoded as YYYYMMDD.
type License struct {
	ID     string `json:"id"`
	Expire string `json:"expire"`
}

// expire is checked as an 8-digit pattern only, not as a real calendar date.
var expirePattern = regexp.MustCompile(`^[0-9]{8}$`)

// DefaultConfig returns the document written on create: VIP on, everything
// else empty. Licenses is non-nil so it serializes as [].
func DefaultConfig() *ConfigDocument {
	return &ConfigDocument{
		VIP:      VIPOn,
		Licenses: []License{},
	}
}

// NormalizeConfig converts raw remote JSON into a ConfigDocument, defaulting
// missing or invalid fields instead of rejecting them. A partially-written or
// hand-edited remote file never blocks editing: an unparseable body yields the
// all-default document.
func NormalizeConfig(raw []byte) *ConfigDocument {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return DefaultConfig()
	}

	doc := DefaultConfig()
	if stringField(fields, "VIP") == string(VIPOff) {
		doc.VIP = VIPOff
	}
	doc.Title = stringField(fields, "title")
	doc.Body = stringField(fields, "body")
	doc.EnterPackage = stringField(fields, "enterPackage")
	doc.LeftURL = stringField(fields, "leftUrl")
	doc.RightURL = stringField(fields, "rightUrl")

	var licenses []map[string]json.RawMessage
	if err := json.Unmarshal(fields["licenses"], &licenses); err == nil {
		for _, l := range licenses {
			doc.Licenses = append(doc.Licenses, License{
				ID:     stringField(l, "id"),
				Expire: stringField(l, "expire"),
			})
		}
	}

	return doc
}

// stringField extracts a JSON string member, defaulting to "" when the member
// is absent or not a string.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}

	return s
}

// Validate checks the save invariants and returns a *ValidationError for the
// first violation found, or nil if the document may be written.
func (d *ConfigDocument) Validate() error {
	if d.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	if err := validateURLField("leftUrl", d.LeftURL); err != nil {
		return err
	}

	if err := validateURLField("rightUrl", d.RightURL); err != nil {
		return err
	}

	for i, l := range d.Licenses {
		if l.ID == "" {
			return &ValidationError{
				Field:  fmt.Sprintf("licenses[%d].id", i),
				Reason: "must not be empty",
			}
		}

		if !expirePattern.MatchString(l.Expire) {
			return &ValidationError{
				Field:  fmt.Sprintf("licenses[%d].expire", i),
				Reason: "must be 8 digits (YYYYMMDD)",
			}
		}
	}

	return nil
}

// validateURLField accepts empty values or well-formed absolute URLs.
func validateURLField(field, value string) error {
	if value == "" {
		return nil
	}

	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ValidationError{Field: field, Reason: "must be an absolute URL"}
	}

	return nil
}

// EncodeConfig renders the canonical remote form: two-space indented JSON
// with multi-byte characters kept literal.
func EncodeConfig(d *ConfigDocument) ([]byte, error) {
	return encodeIndented(d)
}

func encodeIndented(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	// Encode appends a newline; the remote form carries none.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
