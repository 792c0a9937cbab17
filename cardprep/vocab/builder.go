package vocab

import "github.com/xremming/cardprep/cardprep/text"

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithUnknownToken reserves the Unknown sentinel at id 2, so that tokens
// absent from the corpus vectorize to it instead of failing. The original
// scripts had no such fallback for free text; enable it when the vocabulary
// will be applied to text outside the training corpus.
func WithUnknownToken() BuilderOption {
	return func(b *Builder) { b.withUnknown = true }
}

// Builder accumulates tokenized texts and assigns ids in first-seen order.
// The pad sentinels always occupy ids 0 and 1 even when the corpus never
// contains them; callers insert them when vectorizing, not when scanning.
type Builder struct {
	v           *Vocabulary
	withUnknown bool
}

// NewBuilder returns an empty Builder with the sentinels pre-assigned.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{v: &Vocabulary{ids: make(map[string]int), unkID: -1}}
	for _, opt := range opts {
		opt(b)
	}
	b.add(RightPad)
	b.add(LeftPad)
	if b.withUnknown {
		b.v.unkID = b.add(Unknown)
	}
	return b
}

func (b *Builder) add(token string) int {
	if id, ok := b.v.ids[token]; ok {
		return id
	}
	id := len(b.v.tokens)
	b.v.ids[token] = id
	b.v.tokens = append(b.v.tokens, token)
	return id
}

// Add registers every token of one tokenized text, in order.
func (b *Builder) Add(tokens []string) {
	for _, tok := range tokens {
		b.add(tok)
	}
}

// AddText cleans raw rulings text for the named card and registers its tokens.
func (b *Builder) AddText(rawText, cardName string) {
	b.Add(text.CleanOracleText(rawText, cardName))
}

// Build freezes and returns the vocabulary. The Builder must not be used
// afterwards.
func (b *Builder) Build() *Vocabulary {
	v := b.v
	b.v = nil
	return v
}
