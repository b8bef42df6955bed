package graph

import (
	"fmt"
	"strings"
	"time"

	"github.com/baharkarakas/unitrack/internal/api/validate"
	"github.com/baharkarakas/unitrack/internal/apperr"
)

type args map[string]any

func (a args) str(key string) string {
	s, _ := a[key].(string)
	return s
}

// optStr distinguishes an omitted argument (nil) from an empty one.
func (a args) optStr(key string) *string {
	s, ok := a[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func (a args) num(key string) int {
	n, _ := a[key].(int)
	return n
}

func (a args) has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// blank reports an argument that was passed as an empty string.
func (a args) blank(key string) bool {
	s, ok := a[key].(string)
	return ok && strings.TrimSpace(s) == ""
}

func (a args) strs(key string) []string {
	raw, _ := a[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// date parses an optional date argument, accepting RFC 3339 or a bare date.
func (a args) date(key string) (*time.Time, error) {
	s := strings.TrimSpace(a.str(key))
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	errs := validate.Errs{{Field: key, Msg: "must be a date (YYYY-MM-DD or RFC 3339)"}}
	return nil, apperr.Invalid(fmt.Sprintf("%s: invalid date %q", key, s), errs)
}
