package iambic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSample(t *testing.T) *Validator {
	t.Helper()
	v := NewValidator()
	require.NoError(t, v.LoadFile("testdata/cmudict-sample.txt"))
	return v
}

func TestValidator_Load(t *testing.T) {
	v := loadSample(t)

	_, ok := v.Pattern("!exclamation-point")
	assert.False(t, ok, "punctuation entries are skipped")
	_, ok = v.Pattern("'tis")
	assert.False(t, ok, "entries not starting with a letter are skipped")

	p, ok := v.Pattern("compare")
	require.True(t, ok)
	assert.Equal(t, Pattern{Unstressed, Stressed}, p)

	p, ok = v.Pattern("day")
	require.True(t, ok)
	assert.Equal(t, Pattern{AnyStress}, p, "one syllable words take any stress")

	// PERMIT is U S as a verb and S S as a noun
	p, ok = v.Pattern("permit")
	require.True(t, ok)
	assert.Equal(t, Pattern{AnyStress, Stressed}, p)
}

func TestValidator_LoadFileMissing(t *testing.T) {
	err := NewValidator().LoadFile("testdata/does-not-exist.txt")
	assert.Error(t, err)
}

func TestValidator_Check(t *testing.T) {
	v := loadSample(t)

	tests := []struct {
		name string
		line string
		want ValidationResult
	}{
		{
			name: "sonnet 18",
			line: "Shall I compare thee to a summer's day?",
			want: ValidationResult{OK: true, Reason: ReasonOK},
		},
		{
			name: "keats",
			line: "To swell the gourd, and plump the hazel shells",
			want: ValidationResult{OK: true, Reason: ReasonOK},
		},
		{
			name: "too short",
			line: "Not valid.",
			want: ValidationResult{At: 2, Reason: ReasonSyllableCount},
		},
		{
			name: "prose",
			line: "This is not valid text.",
			want: ValidationResult{At: 5, Reason: ReasonSyllableCount},
		},
		{
			name: "too long",
			line: "Shall I compare thee to a summer's day, compare",
			want: ValidationResult{At: 10, Reason: ReasonSyllableCount},
		},
		{
			name: "unknown word",
			line: "ASDF",
			want: ValidationResult{At: 0, Reason: ReasonUnknownWord},
		},
		{
			name: "unknown word later in the line",
			line: "Shall I zzyzx",
			want: ValidationResult{At: 2, Reason: ReasonUnknownWord},
		},
		{
			name: "double stress",
			line: "Tenenbaum Duplication Syllable",
			want: ValidationResult{At: 0, Reason: ReasonDoubleStress},
		},
		{
			name: "double unstress",
			line: "Shall compare",
			want: ValidationResult{At: 1, Reason: ReasonDoubleUnstress},
		},
		{
			name: "empty",
			line: "   ",
			want: ValidationResult{At: 0, Reason: ReasonSyllableCount},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Check(tt.line))
		})
	}
}

func TestValidator_CheckStanza(t *testing.T) {
	v := loadSample(t)

	stanza := `
    Shall I compare thee to a summer's day?
    To swell the gourd, and plump the hazel shells
    `
	results := v.CheckStanza(stanza)
	require.Len(t, results, 2)
	assert.True(t, results[0].OK)
	assert.True(t, results[1].OK)
	assert.True(t, v.IsStanzaIambic(stanza))

	results = v.CheckStanza("Shall I compare thee to a summer's day?\r\nTenenbaum")
	require.Len(t, results, 2)
	assert.True(t, results[0].OK)
	assert.Equal(t, ReasonDoubleStress, results[1].Reason)
	assert.False(t, v.IsStanzaIambic("Shall I compare thee to a summer's day?\nTenenbaum"))

	empty := v.CheckStanza(" \n ")
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestValidator_LoadReader(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Load(strings.NewReader("HELLO  HH AH0 L OW1\nHELLO(1)  HH EH0 L OW1\n")))
	assert.Equal(t, 1, v.Len())
	p, ok := v.Pattern("Hello")
	require.True(t, ok)
	assert.Equal(t, Pattern{Unstressed, Stressed}, p)
}
