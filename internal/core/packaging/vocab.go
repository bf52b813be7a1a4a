// Package packaging extracts deposit transactions from decoded documents
// using a two-tier strategy: the structured record when present, a keyword
// gated text heuristic otherwise
package packaging

import (
	_ "embed"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	perr "kaucja/internal/platform/errors"
)

//go:embed vocab.yaml
var embedded []byte

type rawVocab struct {
	Version  int      `yaml:"version"`
	Keywords []string `yaml:"keywords"`
	Pattern  string   `yaml:"pattern"`
}

// Vocab is the compiled heuristic vocabulary
type Vocab struct {
	Version  int
	Keywords []string // lowercased
	Line     *regexp.Regexp
}

// LoadVocab parses and compiles the embedded vocabulary pack
func LoadVocab() (*Vocab, error) {
	return loadVocab(embedded)
}

func loadVocab(b []byte) (*Vocab, error) {
	var raw rawVocab
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDecode, "vocab pack unmarshal")
	}
	if len(raw.Keywords) == 0 {
		return nil, perr.Decodef("vocab pack has no keywords")
	}
	re, err := regexp.Compile(raw.Pattern)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDecode, "vocab pack pattern")
	}
	v := &Vocab{Version: raw.Version, Line: re}
	for _, k := range raw.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			v.Keywords = append(v.Keywords, k)
		}
	}
	return v, nil
}

// MustVocab loads the embedded pack or panics, for use at process start
func MustVocab() *Vocab {
	v, err := LoadVocab()
	if err != nil {
		panic(err)
	}
	return v
}

// Candidate reports whether line mentions the deposit vocabulary at all
func (v *Vocab) Candidate(line string) bool {
	l := strings.ToLower(line)
	for _, k := range v.Keywords {
		if strings.Contains(l, k) {
			return true
		}
	}
	return false
}
