package react

import (
	"context"

	"github.com/flowloop/agentkit/msg"
)

// Reply drains Stream to completion and returns the single aggregated
// assistant Msg: starting from the last ToolUse in the collected stream
// (or the stream's start if there was none), concatenate every Text
// block's text into one string. Thinking blocks are never included, even
// though they were visible on Stream.
func (e *Executor) Reply(ctx context.Context, userMsg msg.Msg) (msg.Msg, error) {
	lastToolUse := -1
	var collected []msg.Msg

	for m, err := range e.Stream(ctx, userMsg) {
		if err != nil {
			return msg.Msg{}, err
		}
		collected = append(collected, m)
		if _, ok := m.Content().(msg.ToolUse); ok {
			lastToolUse = len(collected) - 1
		}
	}

	text := ""
	for _, m := range collected[lastToolUse+1:] {
		if t, ok := m.Content().(msg.Text); ok {
			text += t.Text
		}
	}

	return msg.NewText(msg.RoleAssistant, "assistant", text), nil
}
