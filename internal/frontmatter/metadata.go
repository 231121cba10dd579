package frontmatter

import (
	"fmt"
	"strconv"
	"strings"
)

// Recognized keys.
const (
	KeyTitle  = "title"
	KeyStatus = "status"
)

// Metadata holds parsed frontmatter fields. Unrecognized keys are kept.
type Metadata map[string]any

// Title returns the document title and whether one is present.
//
// Strings count as present unless blank or "0"; the raw value is returned.
// Non-zero numbers and true are formatted as text. Anything else (null,
// false, zero, sequences, mappings) counts as missing.
func (m Metadata) Title() (string, bool) {
	switch v := m[KeyTitle].(type) {
	case string:
		if t := strings.TrimSpace(v); t == "" || t == "0" {
			return "", false
		}
		return v, true
	case bool:
		if !v {
			return "", false
		}
		return strconv.FormatBool(v), true
	case int:
		if v == 0 {
			return "", false
		}
		return strconv.Itoa(v), true
	case int64:
		if v == 0 {
			return "", false
		}
		return strconv.FormatInt(v, 10), true
	case uint64:
		if v == 0 {
			return "", false
		}
		return strconv.FormatUint(v, 10), true
	case float64:
		if v == 0 {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Status returns the status field, or def when it is absent, null or blank.
func (m Metadata) Status(def string) string {
	v, ok := m[KeyStatus]
	if !ok || v == nil {
		return def
	}
	s, isString := v.(string)
	if !isString {
		s = fmt.Sprint(v)
	}
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
