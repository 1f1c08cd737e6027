package interaction

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tiktoken encoding used for context budgets.
const DefaultEncoding = "cl100k_base"

// TokenCounter measures and trims text in model tokens.
type TokenCounter interface {
	Count(text string) int
	Truncate(text string, maxTokens int) string
}

// TiktokenCounter counts tokens with a BPE encoding.
type TiktokenCounter struct {
	mu  sync.Mutex
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the named encoding. The first load may fetch
// the BPE ranks from the network; tiktoken caches them under
// TIKTOKEN_CACHE_DIR when set.
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return &TiktokenCounter{enc: enc}, nil
}

func (c *TiktokenCounter) Count(text string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.enc.EncodeOrdinary(text))
}

func (c *TiktokenCounter) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tokens := c.enc.EncodeOrdinary(text)
	if len(tokens) <= maxTokens {
		return text
	}
	return c.enc.Decode(tokens[:maxTokens])
}

// ApproxCounter estimates one token per four characters. It needs no
// encoding files and is used when none is configured.
type ApproxCounter struct{}

const runesPerToken = 4

func (ApproxCounter) Count(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + runesPerToken - 1) / runesPerToken
}

func (ApproxCounter) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}

	limit := maxTokens * runesPerToken
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)
	return string(runes[:limit])
}
