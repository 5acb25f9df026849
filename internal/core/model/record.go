package model

import (
	"encoding/json"
	"strings"
)

// UnknownKey is the identity of a record that carries no identifier at all.
const UnknownKey = "unknown"

// Record is one content item pulled from the external knowledge base.
type Record struct {
	ID              string    `json:"id,omitempty"`
	AltID           string    `json:"_id,omitempty"`
	Name            string    `json:"name,omitempty"`
	Category        string    `json:"type,omitempty"`
	Answer          string    `json:"answer,omitempty"`
	Description     string    `json:"description,omitempty"`
	Content         string    `json:"content,omitempty"`
	Body            string    `json:"body,omitempty"`
	RichDescription *RichText `json:"richDescription,omitempty"`
	RichContent     *RichText `json:"richContent,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Website         string    `json:"website,omitempty"`
}

// UnmarshalJSON decodes one record without ever failing. Scalar fields sent
// as numbers or booleans keep their literal text, and an element that is not
// an object becomes an empty record, so one odd record never rejects the list.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID              Scalar    `json:"id"`
		AltID           Scalar    `json:"_id"`
		Name            Scalar    `json:"name"`
		Category        Scalar    `json:"type"`
		Answer          Scalar    `json:"answer"`
		Description     Scalar    `json:"description"`
		Content         Scalar    `json:"content"`
		Body            Scalar    `json:"body"`
		RichDescription *RichText `json:"richDescription"`
		RichContent     *RichText `json:"richContent"`
		Phone           Scalar    `json:"phone"`
		Website         Scalar    `json:"website"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		*r = Record{}
		return nil
	}
	*r = Record{
		ID:              string(raw.ID),
		AltID:           string(raw.AltID),
		Name:            string(raw.Name),
		Category:        string(raw.Category),
		Answer:          string(raw.Answer),
		Description:     string(raw.Description),
		Content:         string(raw.Content),
		Body:            string(raw.Body),
		RichDescription: raw.RichDescription,
		RichContent:     raw.RichContent,
		Phone:           string(raw.Phone),
		Website:         string(raw.Website),
	}
	return nil
}

// Scalar is a text field that also accepts JSON numbers and booleans as their
// literal text. Objects and arrays are kept as raw JSON; null is empty.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*s = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = Scalar(str)
		return nil
	}
	*s = Scalar(trimmed)
	return nil
}

// Key resolves the record identity: primary id, then fallback id, then UnknownKey.
func (r Record) Key() string {
	if id := strings.TrimSpace(r.ID); id != "" {
		return id
	}
	if id := strings.TrimSpace(r.AltID); id != "" {
		return id
	}
	return UnknownKey
}

// Ref is the short form used inside conflict groups.
func (r Record) Ref() EntityRef {
	return EntityRef{ID: r.Key(), Name: r.Name, Type: r.Category}
}

// RichText is a structured-text field. The knowledge base sends it either as a
// plain string or as a {markdown, html} wrapper; any other JSON shape is kept
// verbatim in Raw so it can still be compared as text.
type RichText struct {
	Markdown string `json:"markdown,omitempty"`
	HTML     string `json:"html,omitempty"`
	Plain    string `json:"-"`
	Raw      string `json:"-"`
}

// PlainText builds a RichText that was sent as a bare string.
func PlainText(s string) *RichText {
	return &RichText{Plain: s}
}

// UnmarshalJSON accepts a string, a wrapper object or anything else. It never
// fails: the decoder has already validated the syntax.
func (r *RichText) UnmarshalJSON(data []byte) error {
	*r = RichText{}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Plain = s
		return nil
	}

	var wrapper struct {
		Markdown *string `json:"markdown"`
		HTML     *string `json:"html"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && (wrapper.Markdown != nil || wrapper.HTML != nil) {
		if wrapper.Markdown != nil {
			r.Markdown = *wrapper.Markdown
		}
		if wrapper.HTML != nil {
			r.HTML = *wrapper.HTML
		}
		return nil
	}

	r.Raw = trimmed
	return nil
}

// MarshalJSON writes the same shape that was read.
func (r RichText) MarshalJSON() ([]byte, error) {
	switch {
	case r.Markdown != "" || r.HTML != "":
		return json.Marshal(struct {
			Markdown string `json:"markdown,omitempty"`
			HTML     string `json:"html,omitempty"`
		}{r.Markdown, r.HTML})
	case r.Raw != "":
		if json.Valid([]byte(r.Raw)) {
			return []byte(r.Raw), nil
		}
		return json.Marshal(r.Raw)
	default:
		return json.Marshal(r.Plain)
	}
}

// IsEmpty reports whether no representation carries text.
func (r *RichText) IsEmpty() bool {
	return r == nil || (r.Markdown == "" && r.HTML == "" && r.Plain == "" && r.Raw == "")
}
