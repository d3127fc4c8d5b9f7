// Package catalog holds the curated reference data used to derive answers and
// build plausible distractors: number words, canonical magnitude words,
// definition answers and known option sets.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

// Magnitude maps a canonical round value to its Indonesian "-an" word.
type Magnitude struct {
	Value int    `yaml:"value"`
	Word  string `yaml:"word"`
}

// Definition is a question with a fixed answer and its curated option set.
type Definition struct {
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Options  []string `yaml:"options"`
}

// OptionSet is a curated option list for a question without a fixed answer.
type OptionSet struct {
	Question string   `yaml:"question"`
	Options  []string `yaml:"options"`
}

// Catalog is read-only after Parse returns.
type Catalog struct {
	NumberWords map[string]int      `yaml:"number_words"`
	Magnitudes  []Magnitude         `yaml:"magnitudes"`
	PlaceNames  []string            `yaml:"place_names"`
	Definitions []Definition        `yaml:"definitions"`
	OptionSets  []OptionSet         `yaml:"option_sets"`
	Pools       map[string][]string `yaml:"pools"`

	answers map[string]string
	options map[string][]string
	byValue map[int]string
	byWord  map[string]int
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the embedded catalog. It is parsed once per process.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded data invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse decodes a catalog document. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse catalog: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	c.answers = make(map[string]string, len(c.Definitions))
	c.options = make(map[string][]string, len(c.Definitions)+len(c.OptionSets))
	c.byValue = make(map[int]string, len(c.Magnitudes))
	c.byWord = make(map[string]int, len(c.Magnitudes))

	for _, d := range c.Definitions {
		key := NormalizeKey(d.Question)
		if key == "" || strings.TrimSpace(d.Answer) == "" {
			return fmt.Errorf("catalog: definition %q has empty question or answer", d.Question)
		}
		if _, dup := c.answers[key]; dup {
			return fmt.Errorf("catalog: duplicate definition %q", key)
		}
		c.answers[key] = strings.TrimSpace(d.Answer)
		if len(d.Options) > 0 {
			c.options[key] = d.Options
		}
	}
	for _, s := range c.OptionSets {
		key := NormalizeKey(s.Question)
		if _, dup := c.options[key]; dup {
			return fmt.Errorf("catalog: duplicate option set %q", key)
		}
		c.options[key] = s.Options
	}
	for _, m := range c.Magnitudes {
		if m.Value <= 0 || m.Word == "" {
			return fmt.Errorf("catalog: invalid magnitude %d=%q", m.Value, m.Word)
		}
		c.byValue[m.Value] = m.Word
		c.byWord[m.Word] = m.Value
	}
	return nil
}

var (
	spaceRe    = regexp.MustCompile(`\s+`)
	trailingRe = regexp.MustCompile(`(\s*(adalah|\.\.\.+|…|\?|=))+$`)
)

// NormalizeKey lower-cases s, collapses whitespace and strips trailing
// "adalah", ellipses, question marks and equals signs.
func NormalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = spaceRe.ReplaceAllString(s, " ")
	s = trailingRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// NumberWord returns the value of an Indonesian number word (satu..sepuluh).
func (c *Catalog) NumberWord(w string) (int, bool) {
	v, ok := c.NumberWords[w]
	return v, ok
}

// MagnitudeWord returns the canonical word for v, e.g. 1000 -> "seribuan".
func (c *Catalog) MagnitudeWord(v int) (string, bool) {
	w, ok := c.byValue[v]
	return w, ok
}

// MagnitudeValue is the inverse of MagnitudeWord.
func (c *Catalog) MagnitudeValue(word string) (int, bool) {
	v, ok := c.byWord[strings.TrimSpace(word)]
	return v, ok
}

// Definition looks up the fixed answer for a question.
func (c *Catalog) Definition(question string) (string, bool) {
	a, ok := c.answers[NormalizeKey(question)]
	return a, ok
}

// Options returns the curated option set for a question, or nil.
// The returned slice must not be modified.
func (c *Catalog) Options(question string) []string {
	return c.options[NormalizeKey(question)]
}

// Pool returns extra distractor candidates for the named extractor, or nil.
func (c *Catalog) Pool(extractor string) []string {
	return c.Pools[extractor]
}
