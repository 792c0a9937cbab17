package vocab

import (
	"fmt"
	"os"

	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/model/wordpiece"
	"github.com/sugarme/tokenizer/normalizer"
	"github.com/sugarme/tokenizer/pretokenizer"
)

// WordPiece wraps sugarme/tokenizer's BERT-style WordPiece model over a vocab
// file saved by Vocabulary.Save. It is the subword alternative to the plain
// whole-word Vectorize path, for feeding BERT-family models.
type WordPiece struct {
	t         *tk.Tokenizer
	maxSeqLen int
}

// NewWordPiece loads a one-token-per-line vocab file and builds a WordPiece
// tokenizer with fixed-length output. Unseen subwords map to unkToken, which
// must be present in the file.
func NewWordPiece(vocabPath, unkToken string, maxSeq int) (*WordPiece, error) {
	if maxSeq <= 0 {
		return nil, fmt.Errorf("max sequence length must be positive: %d", maxSeq)
	}
	if fi, err := os.Stat(vocabPath); err != nil || fi.IsDir() {
		return nil, fmt.Errorf("vocab file not readable: %s", vocabPath)
	}

	wp, err := wordpiece.NewWordPieceFromFile(vocabPath, unkToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load wordpiece vocab: %w", err)
	}

	t := tk.NewTokenizer(wp)
	t.WithNormalizer(normalizer.NewBertNormalizer(true, true, true, true))
	t.WithPreTokenizer(pretokenizer.NewBertPreTokenizer())
	t.WithTruncation(&tk.TruncationParams{MaxLength: maxSeq})
	t.WithPadding(&tk.PaddingParams{})

	return &WordPiece{t: t, maxSeqLen: maxSeq}, nil
}

// Tokenize encodes a batch of texts into fixed-length id and attention-mask
// rows of width maxSeqLen.
func (w *WordPiece) Tokenize(texts []string) (ids [][]int64, masks [][]int64, err error) {
	ids = make([][]int64, len(texts))
	masks = make([][]int64, len(texts))
	for i, txt := range texts {
		enc, err := w.t.Encode(tk.NewSingleEncodeInput(tk.NewInputSequence(txt)), true)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode text: %w", err)
		}
		uids := enc.GetIds()
		umask := enc.GetAttentionMask()

		rowIDs := make([]int64, w.maxSeqLen)
		rowMask := make([]int64, w.maxSeqLen)
		n := len(uids)
		if n > w.maxSeqLen {
			n = w.maxSeqLen
		}
		for j := 0; j < n; j++ {
			rowIDs[j] = int64(uids[j])
			if j < len(umask) {
				rowMask[j] = int64(umask[j])
			} else {
				rowMask[j] = 1
			}
		}
		ids[i] = rowIDs
		masks[i] = rowMask
	}
	return ids, masks, nil
}
