package similarity

import "strings"

// PadRune surrounds padded input so that leading and trailing characters
// appear in as many n-grams as inner ones.
const PadRune = '#'

// Tokenizer splits strings into rune n-grams of length Size. A Size of zero or
// less splits on whitespace instead.
type Tokenizer struct {
	Size    int
	Padding bool
}

// NewTokenizer returns a Tokenizer.
func NewTokenizer(size int, padding bool) Tokenizer {
	return Tokenizer{Size: size, Padding: padding}
}

// Tokenize returns the tokens of s in order of appearance. Repeated n-grams
// are kept. Empty input yields no tokens; input shorter than Size yields itself
// as the only token.
func (t Tokenizer) Tokenize(s string) []string {
	if s == "" {
		return nil
	}
	if t.Size <= 0 {
		return strings.Fields(s)
	}

	runes := []rune(s)
	if t.Padding && t.Size > 1 {
		pad := []rune(strings.Repeat(string(PadRune), t.Size-1))
		padded := make([]rune, 0, len(runes)+2*len(pad))
		padded = append(padded, pad...)
		padded = append(padded, runes...)
		padded = append(padded, pad...)
		runes = padded
	}

	if len(runes) <= t.Size {
		return []string{string(runes)}
	}

	tokens := make([]string, 0, len(runes)-t.Size+1)
	for i := 0; i+t.Size <= len(runes); i++ {
		tokens = append(tokens, string(runes[i:i+t.Size]))
	}
	return tokens
}
