// Package utils provides common utility functions.
package utils

import "strings"

// StringHelper provides string utility functions.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// FileStem turns an indicator or country name into a file name stem:
// the " (%)" unit suffix is removed and spaces become underscores.
func (s *StringHelper) FileStem(name string) string {
	name = strings.ReplaceAll(name, " (%)", "")
	name = s.NormalizeWhitespace(name)

	return strings.ReplaceAll(name, " ", "_")
}

// TruncateString truncates string to max length.
func (s *StringHelper) TruncateString(str string, maxLength int) string {
	if len(str) <= maxLength {
		return str
	}

	return str[:maxLength] + "..."
}
