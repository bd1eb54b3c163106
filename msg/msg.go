package msg

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the sender of a Msg.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Msg is immutable after construction: the core never mutates a Msg once
// it has been returned from New / NewText / NewWithID / ToolResultMsg. Callers must treat the
// zero value as unusable; always go through a constructor so ID is set.
type Msg struct {
	id        string
	name      string
	role      Role
	content   ContentBlock
	createdAt time.Time
}

// New constructs a Msg with a fresh opaque ID.
func New(role Role, name string, content ContentBlock) Msg {
	return Msg{
		id:        uuid.NewString(),
		name:      name,
		role:      role,
		content:   content,
		createdAt: time.Now(),
	}
}

// NewWithID constructs a Msg with a caller-supplied ID, used when restoring
// from a snapshot or when a provider-issued ID must be preserved verbatim
// (e.g. a ToolUse's originating id).
func NewWithID(id string, role Role, name string, content ContentBlock) Msg {
	return Msg{
		id:        id,
		name:      name,
		role:      role,
		content:   content,
		createdAt: time.Now(),
	}
}

func (m Msg) ID() string             { return m.id }
func (m Msg) Name() string           { return m.name }
func (m Msg) Role() Role             { return m.role }
func (m Msg) Content() ContentBlock  { return m.content }
func (m Msg) CreatedAt() time.Time   { return m.createdAt }

// NewText is a convenience constructor for the common role+Text case.
func NewText(role Role, name, text string) Msg {
	return New(role, name, Text{Text: text})
}

// ToolResultMsg builds the role=tool Msg the ReAct executor appends after
// dispatching a tool, satisfying invariant (i) in the data model: content
// is a ToolResult whose ID references the originating ToolUse.
func ToolResultMsg(name string, result ToolResult) Msg {
	return New(RoleTool, name, result)
}
