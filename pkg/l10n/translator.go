package l10n

import "fmt"

// Translator translates messages into a fixed language.
type Translator struct {
	catalog  *Catalog
	language string
}

// T translates msg. When args are given the translation is used as a
// fmt format string.
func (t *Translator) T(msg string, args ...any) string {
	s := msg
	if t != nil && t.catalog != nil {
		s, _ = t.catalog.Lookup(t.language, msg)
	}
	if len(args) == 0 {
		return s
	}
	return fmt.Sprintf(s, args...)
}

// Language returns the translator's language.
func (t *Translator) Language() string {
	if t == nil {
		return ""
	}
	return t.language
}
