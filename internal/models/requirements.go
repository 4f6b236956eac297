package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Requirements is the ordered list of things a submission must satisfy.
type Requirements []string

// UnmarshalJSON accepts either a JSON array of strings or a single
// newline-separated string, which is split into one requirement per line.
func (r *Requirements) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*r = ParseRequirements(text)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	out := make(Requirements, 0, len(list))
	for _, item := range list {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*r = out
	return nil
}

// ParseRequirements splits free text into trimmed, non-empty lines.
func ParseRequirements(text string) Requirements {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make(Requirements, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
