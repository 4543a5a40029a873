// Package form holds the typed inputs decoded from the HTML forms.  Each
// input declares which fields are required, validates itself and converts
// into the matching model value.  Echo's binder fills the structs from the
// urlencoded body using the form tags.
package form

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FieldError describes one problem with one submitted field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Errors is the list of problems found by Validate.  A nil Errors means the
// input is acceptable.
type Errors []FieldError

func (es Errors) Error() string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// First returns the first problem, which is what gets flashed to the user.
func (es Errors) First() FieldError {
	if len(es) == 0 {
		return FieldError{}
	}
	return es[0]
}

// Column widths of the venues and artists tables, in characters.
const (
	nameLen     = 255
	shortLen    = 120 // city, state, address, phone, facebook_link
	longLinkLen = 500 // image_link, website
)

type checker struct {
	errs Errors
}

func (c *checker) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.errs = append(c.errs, FieldError{Field: field, Message: "This field is required."})
	}
}

// maxLen counts characters of the trimmed value, as stored.
func (c *checker) maxLen(field, value string, n int) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > n {
		c.errs = append(c.errs, FieldError{Field: field, Message: fmt.Sprintf("Field cannot be longer than %d characters.", n)})
	}
}

// link accepts an empty value; anything else must be an absolute http(s) URL.
func (c *checker) link(field, value string) {
	if value == "" {
		return
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		c.errs = append(c.errs, FieldError{Field: field, Message: "Invalid URL."})
	}
}

func (c *checker) id(field, value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		c.errs = append(c.errs, FieldError{Field: field, Message: "This field is required."})
		return 0
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		c.errs = append(c.errs, FieldError{Field: field, Message: "Must be a positive whole number."})
		return 0
	}
	return n
}

// Checked reports whether a checkbox value means "on".  Only the literal
// "y" counts; a missing field or any other value is false.
func Checked(value string) bool {
	return value == "y"
}

func trim(s string) string { return strings.TrimSpace(s) }

// cleanGenres trims entries and drops empty ones while keeping order.
func cleanGenres(in []string) []string {
	out := make([]string, 0, len(in))
	for _, g := range in {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
