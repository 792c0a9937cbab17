// Package vocab builds token vocabularies over cleaned rulings text and maps
// text to integer id sequences.
package vocab

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/xremming/cardprep/cardprep/text"
)

// Sentinel tokens. RightPad and LeftPad bracket every vectorized sequence and
// always hold ids 0 and 1, whatever the corpus contains. Unknown is only
// present when the vocabulary was built with WithUnknownToken.
const (
	RightPad = "<rpad>" // id 0
	LeftPad  = "<lpad>" // id 1
	Unknown  = "<unk>"
)

// ErrUnknownToken is returned by Vectorize when a token was never seen during
// vocabulary construction and no unknown-token fallback is enabled.
var ErrUnknownToken = fmt.Errorf("unknown token")

// Vocabulary is an immutable token -> id mapping. Ids are assigned in strictly
// increasing first-seen order during a single pass over the corpus; building
// twice from the same ordered corpus yields identical mappings.
type Vocabulary struct {
	ids    map[string]int
	tokens []string
	unkID  int // -1 when no unknown fallback
}

// Len returns the number of tokens, sentinels included.
func (v *Vocabulary) Len() int { return len(v.tokens) }

// ID returns the id for token. When the token is absent the unknown-token id
// is returned if enabled, otherwise an ErrUnknownToken error.
func (v *Vocabulary) ID(token string) (int, error) {
	if id, ok := v.ids[token]; ok {
		return id, nil
	}
	if v.unkID >= 0 {
		return v.unkID, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownToken, token)
}

// Token returns the token for id, or an error when id is out of range.
func (v *Vocabulary) Token(id int) (string, error) {
	if id < 0 || id >= len(v.tokens) {
		return "", fmt.Errorf("token id out of range: %d", id)
	}
	return v.tokens[id], nil
}

// Tokens returns all tokens in id order. The returned slice is a copy.
func (v *Vocabulary) Tokens() []string {
	out := make([]string, len(v.tokens))
	copy(out, v.tokens)
	return out
}

// HasUnknown reports whether unseen tokens fall back to the Unknown sentinel.
func (v *Vocabulary) HasUnknown() bool { return v.unkID >= 0 }

// VectorizeTokens maps an already-cleaned token list to ids, bracketed by the
// left-pad id in front and the right-pad id at the back.
func (v *Vocabulary) VectorizeTokens(tokens []string) ([]int, error) {
	out := make([]int, 0, len(tokens)+2)
	out = append(out, v.ids[LeftPad])
	for _, tok := range tokens {
		id, err := v.ID(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	out = append(out, v.ids[RightPad])
	return out, nil
}

// Vectorize cleans raw text and maps it to a padded id sequence.
func (v *Vocabulary) Vectorize(rawText string) ([]int, error) {
	return v.VectorizeTokens(text.CleanOracleText(rawText, ""))
}

// VectorizeCard cleans a card's rulings text, substituting the card's own
// name, and maps it to a padded id sequence.
func (v *Vocabulary) VectorizeCard(rawText, cardName string) ([]int, error) {
	return v.VectorizeTokens(text.CleanOracleText(rawText, cardName))
}

// Save writes the vocabulary one token per line in id order, the same layout
// WordPiece vocab files use, so the saved file feeds both Load and the
// WordPiece tokenizer.
func (v *Vocabulary) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create vocab file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	for _, tok := range v.tokens {
		if _, err := w.WriteString(tok + "\n"); err != nil {
			return fmt.Errorf("failed to write vocab file: %w", err)
		}
	}
	return w.Flush()
}

// FromTokens rebuilds a vocabulary from its token list in id order, as
// returned by Tokens. The pad sentinels must occupy the first two slots.
func FromTokens(tokens []string) (*Vocabulary, error) {
	v := &Vocabulary{ids: make(map[string]int, len(tokens)), unkID: -1}
	for _, tok := range tokens {
		if _, dup := v.ids[tok]; dup {
			return nil, fmt.Errorf("duplicate token %q", tok)
		}
		id := len(v.tokens)
		v.ids[tok] = id
		v.tokens = append(v.tokens, tok)
		if tok == Unknown {
			v.unkID = id
		}
	}
	if len(v.tokens) < 2 || v.tokens[0] != RightPad || v.tokens[1] != LeftPad {
		return nil, fmt.Errorf("token list does not start with pad sentinels")
	}
	return v, nil
}

// Load reads a vocabulary saved by Save. Line order determines ids; blank
// lines are skipped. The two pad sentinels must occupy the first two lines.
func Load(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vocab file: %w", err)
	}
	defer f.Close()

	var tokens []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tok := strings.TrimSpace(scanner.Text())
		if tok == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vocab file: %w", err)
	}

	v, err := FromTokens(tokens)
	if err != nil {
		return nil, fmt.Errorf("invalid vocab file %s: %w", path, err)
	}
	return v, nil
}
