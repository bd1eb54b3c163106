package format

// TokenCounter counts the tokens a formatted wire-message list would cost
// a provider, used by Budget to decide when to drop history.
type TokenCounter interface {
	Count(messages []WireMessage) int
}

// Budget pairs a TokenCounter with a cap. Its Truncate method trims a
// wire-message list that Format already produced; neither formatter
// holds a Budget or applies one inside Format.
type Budget struct {
	Counter  TokenCounter
	MaxTokens int
}

// Truncate repeatedly removes the oldest non-system message from
// messages and returns the result once Counter.Count falls at or below
// MaxTokens, or only system messages remain — whichever comes first.
// System messages are never removed. Truncate does not reformat from Msg;
// it operates on the already-formatted wire messages, so removing one
// wire message is exactly removing one memory turn for SingleChat (one
// Msg per wire message) but may remove the whole collapsed history in
// one step for
// MultiAgent, which is the expected behavior for that formatter's shape.
func (b Budget) Truncate(messages []WireMessage) []WireMessage {
	if b.Counter == nil || b.MaxTokens <= 0 {
		return messages
	}
	out := make([]WireMessage, len(messages))
	copy(out, messages)

	for b.Counter.Count(out) > b.MaxTokens {
		idx := firstNonSystem(out)
		if idx < 0 {
			break
		}
		out = append(out[:idx], out[idx+1:]...)
	}
	return out
}

func firstNonSystem(messages []WireMessage) int {
	for i, m := range messages {
		if m.Role != "system" {
			return i
		}
	}
	return -1
}
