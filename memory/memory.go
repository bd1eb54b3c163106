// Package memory holds the ordered, append-only conversation log the ReAct
// executor reads and writes. It is intentionally the entire contract a
// session-persistence collaborator needs: snapshot out, restore in.
package memory

import (
	"sync"

	"github.com/flowloop/agentkit/msg"
)

// Memory is an ordered sequence of Msg, safe for concurrent append and
// snapshot. Restore and Clear are not safe to race with Append from another
// goroutine and are expected to be called between ReAct turns, matching the
// teacher's ConversationHistory which guards the same slice with one mutex.
type Memory struct {
	mu       sync.RWMutex
	messages []msg.Msg
}

// New creates an empty Memory.
func New() *Memory {
	return &Memory{messages: make([]msg.Msg, 0, 16)}
}

// Append adds a message to the end of the log. It never blocks on a
// concurrent Snapshot for longer than the snapshot's own copy.
func (m *Memory) Append(message msg.Msg) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
}

// AppendAll appends a batch of messages in order, as a single critical
// section, so a concurrent Snapshot never observes a partially-appended
// batch (e.g. a tool-result fan-out).
func (m *Memory) AppendAll(messages []msg.Msg) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, messages...)
}

// Snapshot returns a copy of the log as it stood at some instant between
// the call and its return; it never observes a torn append.
func (m *Memory) Snapshot() []msg.Msg {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]msg.Msg, len(m.messages))
	copy(out, m.messages)
	return out
}

// Restore replaces the log wholesale, e.g. after loading a session.
func (m *Memory) Restore(messages []msg.Msg) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages[:0], messages...)
}

// Clear empties the log. It is the only operation besides Restore that can
// shrink Memory's length.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = m.messages[:0]
}

// Len reports the current number of messages.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}

// Last returns the most recent message, if any.
func (m *Memory) Last() (msg.Msg, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.messages) == 0 {
		return msg.Msg{}, false
	}
	return m.messages[len(m.messages)-1], true
}
