package common

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ParseJSON pulls the first JSON object out of a model reply and decodes it
// into T. Markdown code fences and chatter around the object are ignored.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	text := response
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	start := strings.IndexByte(text, '{')
	if start == -1 {
		return zero, errors.New("no JSON object found in response (missing '{')")
	}
	end := strings.LastIndexByte(text, '}')
	if end < start {
		return zero, errors.New("no JSON object found in response (missing '}')")
	}

	var result T
	if err := json.Unmarshal([]byte(text[start:end+1]), &result); err != nil {
		return zero, errors.Wrapf(err, "failed to unmarshal JSON: %s", text[start:end+1])
	}
	return result, nil
}
