// Package text turns raw card rulings text into cleaned word tokens.
package text

import (
	"regexp"
	"strings"
	"unicode"
)

// NamePlaceholder replaces occurrences of a card's own name in its rulings
// text, so that self-references tokenize identically across cards.
const NamePlaceholder = "~"

// parenRe matches a parenthesized span without crossing newlines. Nesting is
// not supported: a closing paren closes the nearest open paren, so an
// unmatched ')' truncates the removed span.
var parenRe = regexp.MustCompile(`\(.*?\)`)

// RemoveParentheses deletes every parenthesized span from s. Reminder text on
// cards is always parenthesized and carries no rules content.
func RemoveParentheses(s string) string {
	return parenRe.ReplaceAllString(s, "")
}

// CleanOracleText normalizes rulings text into lowercase word tokens. The
// card's own name is replaced with NamePlaceholder before anything else, so
// the name's words never enter the vocabulary. Mana and tap symbols like
// {2}{W} survive as separate tokens; everything else outside letters, digits
// and a small symbol set becomes a space.
//
// Text with no alphanumeric content yields an empty (nil) token list.
func CleanOracleText(text, cardName string) []string {
	if cardName != "" {
		text = strings.ReplaceAll(text, cardName, NamePlaceholder)
	}
	text = RemoveParentheses(text)
	text = strings.ReplaceAll(text, "\n", " ")

	var b strings.Builder
	b.Grow(len(text) + 8)
	for _, r := range text {
		switch {
		case r == '\t' || r == '\r' || r == '\n':
			b.WriteRune(' ')
		case r == '}':
			// keep the symbol but force a token boundary after it,
			// so "{T}{W}" splits into "{t}" and "{w}"
			b.WriteRune('}')
			b.WriteRune(' ')
		case r == '~' || r == '{' || r == '+' || r == '-' || r == '/':
			b.WriteRune(r)
		case unicode.IsSpace(r) || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Fields(strings.ToLower(b.String()))
}
