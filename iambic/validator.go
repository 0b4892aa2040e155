package iambic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Stress marks a syllable in an accent pattern.
type Stress uint8

const (
	Unstressed Stress = iota + 1
	Stressed
	// AnyStress matches either stress. One-syllable words and syllables on
	// which alternate pronunciations disagree are AnyStress.
	AnyStress
)

func (s Stress) generalize(other Stress) Stress {
	if s != other {
		return AnyStress
	}
	return s
}

type Pattern []Stress

// patternFromPhonemes reads the stress digit on each vowel phoneme of a
// CMU dictionary entry. Consonants carry no digit and are skipped.
func patternFromPhonemes(phonemes []string) Pattern {
	var p Pattern
	for _, ph := range phonemes {
		switch {
		case strings.HasSuffix(ph, "0"):
			p = append(p, Unstressed)
		case strings.HasSuffix(ph, "1"), strings.HasSuffix(ph, "2"):
			p = append(p, Stressed)
		}
	}
	if len(p) == 1 {
		return Pattern{AnyStress}
	}
	return p
}

// merge folds an alternate pronunciation into p. The result is as long as
// the shorter of the two.
func (p Pattern) merge(other Pattern) Pattern {
	n := min(len(p), len(other))
	out := make(Pattern, n)
	for i := range n {
		out[i] = other[i].generalize(p[i])
	}
	return out
}

type Reason string

const (
	ReasonOK             Reason = "Ok."
	ReasonUnknownWord    Reason = "Unknown word."
	ReasonDoubleStress   Reason = "Two syllables with stress in a row."
	ReasonDoubleUnstress Reason = "Two unstressed syllables in a row."
	ReasonSyllableCount  Reason = "Wrong number of syllables."
)

// ValidationResult describes one line of a poem. At is a word index for
// ReasonUnknownWord and a syllable index otherwise.
type ValidationResult struct {
	OK     bool   `json:"ok"`
	At     int    `json:"at"`
	Reason Reason `json:"reason"`
}

const syllablesPerLine = 10 // five iambs

// Every ASCII punctuation mark except the apostrophe, which changes
// pronunciation ("summer's").
const punctuation = "!\"#$%&()*+,-./:;<=>?@[\\]^_`{|}~"

var punctuationStripper = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(punctuation))
	for _, r := range punctuation {
		pairs = append(pairs, string(r), "")
	}
	return strings.NewReplacer(pairs...)
}()

// Validator checks text for iambic pentameter against a pronouncing
// dictionary. Load must finish before Check is used concurrently.
type Validator struct {
	dictionary map[string]Pattern
}

func NewValidator() *Validator {
	return &Validator{dictionary: make(map[string]Pattern)}
}

// LoadFile loads a dictionary in cmudict format, e.g. cmudict-0.7b.txt.
func (v *Validator) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()
	return v.Load(f)
}

func (v *Validator) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, ";;;") {
			continue
		}
		// entries for punctuation marks start with the mark itself
		if line[0] < 'A' || line[0] > 'Z' {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) < 2 {
			continue
		}
		// WORD(1), WORD(2) are alternate pronunciations of WORD
		key, _, _ := strings.Cut(tokens[0], "(")
		pattern := patternFromPhonemes(tokens[1:])
		if known, ok := v.dictionary[key]; ok {
			v.dictionary[key] = known.merge(pattern)
		} else {
			v.dictionary[key] = pattern
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read dictionary: %w", err)
	}
	return nil
}

func (v *Validator) Len() int {
	return len(v.dictionary)
}

// Pattern returns the accent pattern of a single word.
func (v *Validator) Pattern(word string) (Pattern, bool) {
	p, ok := v.dictionary[strings.ToUpper(word)]
	return p, ok
}

// Check validates a single line.
func (v *Validator) Check(line string) ValidationResult {
	words := strings.Fields(strings.ToUpper(punctuationStripper.Replace(line)))

	var pattern Pattern
	for i, word := range words {
		p, ok := v.dictionary[word]
		if !ok {
			return ValidationResult{At: i, Reason: ReasonUnknownWord}
		}
		pattern = append(pattern, p...)
	}

	for i := range min(len(pattern), syllablesPerLine) {
		want := Unstressed
		if i%2 == 1 {
			want = Stressed
		}
		got := pattern[i]
		if got == AnyStress || got == want {
			continue
		}
		if got == Stressed {
			return ValidationResult{At: i, Reason: ReasonDoubleStress}
		}
		return ValidationResult{At: i, Reason: ReasonDoubleUnstress}
	}

	if len(pattern) != syllablesPerLine {
		at := max(len(pattern)-1, 0)
		if len(pattern) > syllablesPerLine {
			at = syllablesPerLine
		}
		return ValidationResult{At: at, Reason: ReasonSyllableCount}
	}
	return ValidationResult{OK: true, Reason: ReasonOK}
}

// CheckStanza validates every line of text after trimming surrounding
// whitespace. Empty text yields an empty, non-nil slice.
func (v *Validator) CheckStanza(text string) []ValidationResult {
	results := []ValidationResult{}
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return results
	}
	for _, line := range strings.Split(text, "\n") {
		results = append(results, v.Check(line))
	}
	return results
}

func (v *Validator) IsStanzaIambic(text string) bool {
	for _, r := range v.CheckStanza(text) {
		if !r.OK {
			return false
		}
	}
	return true
}
