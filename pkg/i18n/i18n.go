// Package i18n resolves bilingual (English/Amharic) content.
//
// Settings holds the process-wide site default. Each request gets its own
// Resolver, derived from the request's preference and falling back to the
// Settings default, and render functions receive that resolver explicitly.
package i18n

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Language identifies a supported display language.
type Language string

const (
	English Language = "en"
	Amharic Language = "am"
)

var (
	supportedTags = []language.Tag{language.English, language.Amharic}
	matcher       = language.NewMatcher(supportedTags)
)

// Parse maps a raw value onto a supported language. Anything unrecognised is English.
func Parse(raw string) Language {
	lang, _ := lookup(raw)
	return lang
}

// Recognized reports whether raw names a supported language.
func Recognized(raw string) bool {
	_, ok := lookup(raw)
	return ok
}

func lookup(raw string) (Language, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return English, false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return English, false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return English, false
	}
	switch base.String() {
	case "am":
		return Amharic, true
	case "en":
		return English, true
	}
	return English, false
}

// FromAcceptLanguage picks the best supported language for an Accept-Language header.
// ok is false when the header names nothing we support.
func FromAcceptLanguage(header string) (Language, bool) {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return English, false
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return English, false
	}
	if supportedTags[idx] == language.Amharic {
		return Amharic, true
	}
	return English, true
}

// Tag returns the BCP 47 tag for l.
func (l Language) Tag() language.Tag {
	if l == Amharic {
		return language.Amharic
	}
	return language.English
}

// String implements fmt.Stringer.
func (l Language) String() string {
	if l == Amharic {
		return string(Amharic)
	}
	return string(English)
}

// Settings is the process-wide language setting. The zero value defaults to English.
type Settings struct {
	mu   sync.RWMutex
	lang Language
}

// NewSettings builds settings with the given default.
func NewSettings(lang Language) *Settings {
	return &Settings{lang: Parse(string(lang))}
}

// Language returns the current site default.
func (s *Settings) Language() Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lang == "" {
		return English
	}
	return s.lang
}

// SetLanguage replaces the site default. Unrecognised values fall back to English.
func (s *Settings) SetLanguage(lang Language) {
	s.mu.Lock()
	s.lang = Parse(string(lang))
	s.mu.Unlock()
}

// Resolver picks between an English and an Amharic string for one rendering context.
type Resolver struct {
	mu   sync.RWMutex
	lang Language
}

// NewResolver returns a resolver with the given active language.
func NewResolver(lang Language) *Resolver {
	return &Resolver{lang: Parse(string(lang))}
}

// Language returns the active language.
func (r *Resolver) Language() Language {
	if r == nil {
		return English
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.lang == "" {
		return English
	}
	return r.lang
}

// SetLanguage changes the active language.
func (r *Resolver) SetLanguage(lang Language) {
	r.mu.Lock()
	r.lang = Parse(string(lang))
	r.mu.Unlock()
}

// Resolve returns am when the active language is Amharic, otherwise en.
func (r *Resolver) Resolve(en, am string) string {
	if r.Language() == Amharic {
		return am
	}
	return en
}

// Text is an English/Amharic pair.
type Text struct {
	EN string `json:"en"`
	AM string `json:"am"`
}

// T builds a Text pair.
func T(en, am string) Text {
	return Text{EN: en, AM: am}
}

// Localize renders the pair for r.
func (t Text) Localize(r *Resolver) string {
	return r.Resolve(t.EN, t.AM)
}
