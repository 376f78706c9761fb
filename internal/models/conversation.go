package models

import "strings"

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// SearchFactPrefix introduces a web-search result appended to a turn.
const SearchFactPrefix = "Information trouvée sur internet: "

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ConversationTurn is the message sequence sent to the reply generator for
// one request. The persona is always entry 0 and is never rewritten; the only
// growth allowed is a single search fact appended after the user entry.
type ConversationTurn struct {
	messages []Message
}

func NewConversationTurn(persona, transcript string) ConversationTurn {
	return ConversationTurn{messages: []Message{
		{Role: RoleSystem, Content: persona},
		{Role: RoleUser, Content: transcript},
	}}
}

// WithSearchFact returns a copy of the turn with the search result appended
// as a second system entry. The receiver is left untouched.
func (t ConversationTurn) WithSearchFact(fact string) ConversationTurn {
	out := make([]Message, 0, len(t.messages)+1)
	out = append(out, t.messages...)
	out = append(out, Message{Role: RoleSystem, Content: SearchFactPrefix + strings.TrimSpace(fact)})
	return ConversationTurn{messages: out}
}

// Messages returns a copy so callers cannot reorder or edit the persona entry.
func (t ConversationTurn) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t ConversationTurn) Len() int { return len(t.messages) }

func (t ConversationTurn) Persona() string {
	if len(t.messages) == 0 {
		return ""
	}
	return t.messages[0].Content
}

// Transcript is the guest's words, the user entry of the turn.
func (t ConversationTurn) Transcript() string {
	for _, m := range t.messages {
		if m.Role == RoleUser {
			return m.Content
		}
	}
	return ""
}

// Augmented reports whether a search fact has been added.
func (t ConversationTurn) Augmented() bool {
	return len(t.messages) > 2
}
