package validate

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/baharkarakas/unitrack/internal/apperr"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string { // error interface
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Collect drops nil checks and returns nil when nothing failed.
func Collect(checks ...*ErrField) error {
	var out Errs
	for _, c := range checks {
		if c != nil {
			out = append(out, *c)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return apperr.Invalid(out.Error(), out)
}

// Helpers
func Required(field, value string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}

func MinLen(field, value string, n int) *ErrField {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
		return &ErrField{Field: field, Msg: "must be at least " + strconv.Itoa(n) + " characters"}
	}
	return nil
}

func MaxLen(field, value string, n int) *ErrField {
	if utf8.RuneCountInString(value) > n {
		return &ErrField{Field: field, Msg: "must be at most " + strconv.Itoa(n) + " characters"}
	}
	return nil
}

// When returns a field error only if cond holds.
func When(cond bool, field, msg string) *ErrField {
	if cond {
		return &ErrField{Field: field, Msg: msg}
	}
	return nil
}
