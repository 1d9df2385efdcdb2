// Package l10n loads translation tables and negotiates the language of a request.
//
// Message ids are the English source strings, so an untranslated message
// falls back to readable text. Translations may contain fmt verbs that are
// filled from the arguments passed to T.
//
//	cat, err := l10n.New(
//		l10n.WithDefaultLanguage("en"),
//		l10n.WithYAMLDir(locales),
//	)
//	lang := cat.Negotiate(r.Header.Get("Accept-Language"))
//	tr := cat.Translator(lang)
//	tr.T("Page not found.")
package l10n

import (
	"fmt"
	"slices"

	"golang.org/x/text/language"
)

// DefaultLang is used when no default language is configured.
const DefaultLang = "en"

// Catalog holds the translation tables of all installed languages.
// It is immutable after New and safe for concurrent use.
type Catalog struct {
	tables      map[string]map[string]string
	matcher     language.Matcher
	defaultLang string
	languages   []string
}

// Option configures a Catalog during construction.
type Option func(*Catalog) error

// New builds a catalog from the given options.
func New(opts ...Option) (*Catalog, error) {
	c := &Catalog{
		tables:      make(map[string]map[string]string),
		defaultLang: DefaultLang,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("l10n: apply option: %w", err)
		}
	}

	c.languages = c.buildLanguages()

	tags := make([]language.Tag, 0, len(c.languages))
	for _, lang := range c.languages {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLanguage, lang)
		}
		tags = append(tags, tag)
	}
	c.matcher = language.NewMatcher(tags)

	return c, nil
}

// WithDefaultLanguage sets the fallback language. It is always offered first
// during negotiation.
func WithDefaultLanguage(lang string) Option {
	return func(c *Catalog) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		c.defaultLang = lang
		return nil
	}
}

// WithTable merges a message table for lang.
func WithTable(lang string, table map[string]string) Option {
	return func(c *Catalog) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		c.merge(lang, table)
		return nil
	}
}

func (c *Catalog) merge(lang string, table map[string]string) {
	dst, ok := c.tables[lang]
	if !ok {
		dst = make(map[string]string, len(table))
		c.tables[lang] = dst
	}
	for k, v := range table {
		dst[k] = v
	}
}

// buildLanguages lists the default language first, then the others sorted.
func (c *Catalog) buildLanguages() []string {
	langs := []string{c.defaultLang}
	others := make([]string, 0, len(c.tables))
	for lang := range c.tables {
		if lang != c.defaultLang {
			others = append(others, lang)
		}
	}
	slices.Sort(others)
	return append(langs, others...)
}

// Languages returns the installed languages, default first.
func (c *Catalog) Languages() []string {
	return slices.Clone(c.languages)
}

// DefaultLanguage returns the fallback language.
func (c *Catalog) DefaultLanguage() string {
	return c.defaultLang
}

// Has reports whether lang is installed.
func (c *Catalog) Has(lang string) bool {
	return slices.Contains(c.languages, lang)
}

// Negotiate picks the best installed language for an Accept-Language header.
// It returns the default language when the header is empty, malformed or
// matches nothing.
func (c *Catalog) Negotiate(acceptLanguage string) string {
	if acceptLanguage == "" {
		return c.defaultLang
	}
	if len(acceptLanguage) > maxAcceptLanguageLength {
		acceptLanguage = acceptLanguage[:maxAcceptLanguageLength]
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.defaultLang
	}

	_, index, confidence := c.matcher.Match(tags...)
	if confidence == language.No {
		return c.defaultLang
	}
	return c.languages[index]
}

// maxAcceptLanguageLength bounds the header size handed to the parser.
const maxAcceptLanguageLength = 4096

// Lookup returns the translation of msg in lang, falling back to the base
// language and then the default language. It reports false when no table
// has the message.
func (c *Catalog) Lookup(lang, msg string) (string, bool) {
	if s, ok := c.tables[lang][msg]; ok {
		return s, true
	}
	if base := baseLanguage(lang); base != lang {
		if s, ok := c.tables[base][msg]; ok {
			return s, true
		}
	}
	if s, ok := c.tables[c.defaultLang][msg]; ok {
		return s, true
	}
	return msg, false
}

// Translator returns a translator bound to lang. Unknown languages fall
// back to the default language.
func (c *Catalog) Translator(lang string) *Translator {
	if lang == "" || !c.Has(lang) {
		lang = c.defaultLang
	}
	return &Translator{catalog: c, language: lang}
}

func baseLanguage(lang string) string {
	for i := 0; i < len(lang); i++ {
		if lang[i] == '-' || lang[i] == '_' {
			return lang[:i]
		}
	}
	return lang
}
