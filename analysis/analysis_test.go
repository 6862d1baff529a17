package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"already normalized", "diwali festival of lights", "diwali festival of lights"},
		{"mixed case", "Diwali FESTIVAL", "diwali festival"},
		{"whitespace runs", "  a \t b \n\n c  ", "a b c"},
		{"newlines and tabs", "lamps\nand\trangoli", "lamps and rangoli"},
		{"only whitespace", " \n\t ", ""},
		{"unicode", "Fête  Des  Lumières", "fête des lumières"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Diwali, the Festival of Lights!",
		"  spaced\tout\n\ntext ",
		"already normalized text",
		"Fête des Lumières 2024",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"punctuation delimits", "Diwali, the festival-of-lights!", []string{"diwali", "the", "festival", "of", "lights"}},
		{"single chars dropped", "a i x of", []string{"of"}},
		{"digits and underscore", "42 _id rev2", []string{"42", "_id", "rev2"}},
		{"empty", "", nil},
		{"only punctuation", "... !!! ---", nil},
		{"two rune unicode", "fê ré x", []string{"fê", "ré"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.input))
		})
	}
}

func TestAnalyzer_Terms(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	// Stop words are removed before bigram formation, so the bigram spans
	// the removed "of".
	got := a.Terms("the festival of lights")
	assert.Equal(t, []string{"festival", "lights", "festival lights"}, got)
}

func TestAnalyzer_Terms_Empty(t *testing.T) {
	a := MustNew()

	assert.Empty(t, a.Terms(""))
	assert.Empty(t, a.Terms("the of and")) // all stop words
	assert.Empty(t, a.Terms("! ? ."))
}

func TestAnalyzer_Terms_NoStopWords(t *testing.T) {
	a := MustNew(func(o *Options) {
		o.StopWords = nil
	})

	got := a.Terms("the festival of lights")
	assert.Equal(t, []string{
		"the", "festival", "of", "lights",
		"the festival", "festival of", "of lights",
	}, got)
}

func TestAnalyzer_Terms_UnigramOnly(t *testing.T) {
	a := MustNew(func(o *Options) {
		o.NGramMax = 1
	})

	got := a.Terms("lamps and rangoli patterns")
	assert.Equal(t, []string{"lamps", "rangoli", "patterns"}, got)
}

func TestAnalyzer_Terms_Deterministic(t *testing.T) {
	a := MustNew()

	text := "Oil lamps, rangoli patterns and the goddess Lakshmi."
	first := a.Terms(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, a.Terms(text))
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(func(o *Options) { o.NGramMin = 0 })
	assert.Error(t, err)

	_, err = New(func(o *Options) { o.NGramMin = 3; o.NGramMax = 2 })
	assert.Error(t, err)
}

func TestAnalyzer_Options(t *testing.T) {
	a := MustNew()

	opts := a.Options()
	require.Equal(t, 1, opts.NGramMin)
	require.Equal(t, 2, opts.NGramMax)
	require.NotEmpty(t, opts.StopWords)

	// Returned configuration is a copy; mutating it must not change the
	// analyzer's behavior.
	opts.StopWords[0] = "festival"
	assert.Contains(t, a.Terms("a festival"), "festival")
}

func TestEnglishStopWords_AppliedByDefault(t *testing.T) {
	a := MustNew()

	for _, w := range []string{"the", "of", "and", "with", "between"} {
		assert.NotContains(t, a.Terms("lamps "+w+" lights"), w)
	}
}
