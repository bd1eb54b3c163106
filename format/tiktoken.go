package format

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// perMessageOverhead approximates the fixed per-message token cost chat
// APIs charge beyond the content itself (role framing, separators),
// mirroring the constant fudge factor providers document for their
// own token estimators.
const perMessageOverhead = 4

// TiktokenCounter is a TokenCounter backed by tiktoken-go, counting a
// wire-message list's content strings plus tool-call argument strings
// plus a fixed per-message overhead.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter builds a counter for the named encoding (e.g.
// "cl100k_base"). An empty encoding selects cl100k_base; an unrecognized
// one is an error.
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	if encoding == "" {
		encoding = "cl100k_base"
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("format: load tiktoken encoding %q: %w", encoding, err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

func (c *TiktokenCounter) Count(messages []WireMessage) int {
	total := 0
	for _, m := range messages {
		total += perMessageOverhead
		total += c.countContent(m.Content)
		for _, tc := range m.ToolCalls {
			total += len(c.enc.Encode(tc.Function.Name, nil, nil))
			total += len(c.enc.Encode(tc.Function.Arguments, nil, nil))
		}
	}
	return total
}

func (c *TiktokenCounter) countContent(content any) int {
	switch v := content.(type) {
	case string:
		return len(c.enc.Encode(v, nil, nil))
	case []WireContentEntry:
		total := 0
		for _, e := range v {
			total += len(c.enc.Encode(e.Text, nil, nil))
		}
		return total
	default:
		return 0
	}
}
