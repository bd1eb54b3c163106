package memory

import (
	"github.com/flowloop/agentkit/msg"
)

// ContentType tags a snapshot record's original content kind. Only Text is
// guaranteed to round-trip; everything else is preserved as a label plus
// its best-effort string rendering.
type ContentType string

const (
	ContentText       ContentType = "TEXT"
	ContentThinking   ContentType = "THINKING"
	ContentToolUse    ContentType = "TOOL_USE"
	ContentToolResult ContentType = "TOOL_RESULT"
	ContentMedia      ContentType = "MEDIA"
)

// SnapshotRole mirrors msg.Role using the snapshot format's uppercase
// convention (matches the wire-adjacent "SYSTEM"|"USER"|"ASSISTANT"|"TOOL").
type SnapshotRole string

const (
	SnapshotSystem    SnapshotRole = "SYSTEM"
	SnapshotUser      SnapshotRole = "USER"
	SnapshotAssistant SnapshotRole = "ASSISTANT"
	SnapshotTool      SnapshotRole = "TOOL"
)

// Record is one serialized message in a Snapshot.
type Record struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Role        SnapshotRole `json:"role"`
	Content     string       `json:"content"`
	ContentType ContentType  `json:"contentType"`
}

// Snapshot is the external, session-persistence-facing representation of a
// Memory log. It is the entire contract the core exposes to a persistence
// collaborator; the collaborator owns how/where bytes land on disk.
type Snapshot struct {
	Messages []Record `json:"messages"`
}

func roleToSnapshot(r msg.Role) SnapshotRole {
	switch r {
	case msg.RoleSystem:
		return SnapshotSystem
	case msg.RoleUser:
		return SnapshotUser
	case msg.RoleTool:
		return SnapshotTool
	default:
		return SnapshotAssistant
	}
}

func snapshotToRole(r SnapshotRole) msg.Role {
	switch r {
	case SnapshotSystem:
		return msg.RoleSystem
	case SnapshotUser:
		return msg.RoleUser
	case SnapshotTool:
		return msg.RoleTool
	default:
		return msg.RoleAssistant
	}
}

// ToSnapshot renders the current log into the external snapshot format.
// Text is canonical; every other block degrades to its text representation
// (or, for tool blocks, to a short description) with ContentType recording
// what it actually was.
func (m *Memory) ToSnapshot() Snapshot {
	msgs := m.Snapshot()
	records := make([]Record, 0, len(msgs))
	for _, mm := range msgs {
		records = append(records, toRecord(mm))
	}
	return Snapshot{Messages: records}
}

func toRecord(mm msg.Msg) Record {
	rec := Record{
		ID:   mm.ID(),
		Name: mm.Name(),
		Role: roleToSnapshot(mm.Role()),
	}
	switch b := mm.Content().(type) {
	case msg.Text:
		rec.Content = b.Text
		rec.ContentType = ContentText
	case msg.Thinking:
		rec.Content = b.Text
		rec.ContentType = ContentThinking
	case msg.ToolUse:
		rec.Content = b.Name
		rec.ContentType = ContentToolUse
	case msg.ToolResult:
		if text, ok := msg.TextOf(b.Output); ok {
			rec.Content = text
		}
		rec.ContentType = ContentToolResult
	default:
		rec.ContentType = ContentMedia
	}
	return rec
}

// RestoreSnapshot rebuilds a Memory from a Snapshot. Text is canonical:
// every record is restored as a Text block regardless of its original
// ContentType, since only text round-trips losslessly through the
// snapshot format.
func RestoreSnapshot(s Snapshot) *Memory {
	m := New()
	restored := make([]msg.Msg, 0, len(s.Messages))
	for _, rec := range s.Messages {
		restored = append(restored, msg.NewWithID(rec.ID, snapshotToRole(rec.Role), rec.Name, msg.Text{Text: rec.Content}))
	}
	m.Restore(restored)
	return m
}
