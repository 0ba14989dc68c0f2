package ollama

import (
	"encoding/json"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Message is a single chat message
type Message struct {
	Role      string     `json:"role"`              // system, user, assistant, tool
	Content   string     `json:"content"`           // message text
	Name      string     `json:"name,omitempty"`    // function name - when role is tool
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a tool invocation requested by the model
type ToolCall struct {
	Function ToolCallFunction `json:"function"`
}

type ToolCallFunction struct {
	Index     int            `json:"index,omitempty"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// Tool is a function definition offered to the model
type Tool struct {
	Type     string       `json:"type"` // function
	Function ToolFunction `json:"function"`
}

type ToolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTool returns a function definition with a raw JSON parameter schema
func NewTool(name, description string, schema json.RawMessage) Tool {
	return Tool{
		Type: "function",
		Function: ToolFunction{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
	}
}

// NewSystemMessage, NewUserMessage and NewToolMessage construct the
// message roles used in a conversation
func NewSystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

func NewUserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

func NewToolMessage(name, content string) Message {
	return Message{Role: "tool", Name: name, Content: content}
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (m Message) String() string {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}
