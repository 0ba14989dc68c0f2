// Package agent wires tools discovered from an MCP server into an
// Ollama-hosted model and runs the conversational loop between them.
package agent

import (
	"context"

	// Packages
	weather "github.com/weatherlab/go-weather-mcp"
	mcp "github.com/weatherlab/go-weather-mcp/pkg/mcp"
	ollama "github.com/weatherlab/go-weather-mcp/pkg/ollama"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Generator produces model replies for a conversation.
type Generator interface {
	Chat(ctx context.Context, model string, messages []ollama.Message, opts ...ollama.Opt) (*ollama.Response, error)
}

// ToolCaller discovers and invokes tools on a remote server.
type ToolCaller interface {
	ListTools(ctx context.Context) ([]*mcp.Tool, error)
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
}

// Session is a single conversation: a memory buffer of messages, the
// tools discovered from the server, and the model that drives them.
type Session struct {
	model     string
	generator Generator
	tools     ToolCaller
	defs      []ollama.Tool
	seq       []ollama.Message
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// SystemPrompt directs the model to answer through the weather tools.
const SystemPrompt = `You are an AI assistant for Tool Calling.

Before you help a user, you need to work with tools to interact with the National Weather Service.

When a user asks a question:
1. Determine if you need to use a tool to answer
2. If yes, execute immediately the tool call with the correct parameters
3. After receiving the tool results, provide a natural language response to the user based on those results
4. Do NOT just return the raw tool output or tool calls`

// maxToolTurns bounds the number of chat rounds spent resolving tool
// calls within a single user turn.
const maxToolTurns = 5

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewSession creates a conversation seeded with the system prompt.
func NewSession(generator Generator, tools ToolCaller, model string) *Session {
	return &Session{
		model:     model,
		generator: generator,
		tools:     tools,
		seq:       []ollama.Message{ollama.NewSystemMessage(SystemPrompt)},
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Discover lists the server's tools and converts them to function
// definitions for the model.
func (s *Session) Discover(ctx context.Context) error {
	tools, err := s.tools.ListTools(ctx)
	if err != nil {
		return err
	}

	s.defs = make([]ollama.Tool, 0, len(tools))
	for _, t := range tools {
		s.defs = append(s.defs, ollama.NewTool(t.Name, t.Description, t.InputSchema))
	}
	return nil
}

// Tools returns the discovered function definitions.
func (s *Session) Tools() []ollama.Tool {
	return s.defs
}

// Messages returns the conversation so far.
func (s *Session) Messages() []ollama.Message {
	return s.seq
}

// FromUser appends user input to the conversation, resolves any tool
// calls the model makes, and returns the model's final text.
func (s *Session) FromUser(ctx context.Context, input string, opts ...ollama.Opt) (string, error) {
	s.seq = append(s.seq, ollama.NewUserMessage(input))

	for range maxToolTurns {
		chatopts := opts
		if len(s.defs) > 0 {
			chatopts = append(chatopts, ollama.WithTools(s.defs...))
		}
		response, err := s.generator.Chat(ctx, s.model, s.seq, chatopts...)
		if err != nil {
			return "", err
		}
		s.seq = append(s.seq, response.Message)

		// No tool calls: the reply is final
		if len(response.Message.ToolCalls) == 0 {
			return response.Message.Content, nil
		}

		// Invoke each requested tool and feed the results back
		for _, call := range response.Message.ToolCalls {
			result, err := s.tools.CallTool(ctx, call.Function.Name, call.Function.Arguments)
			if err != nil {
				return "", err
			}
			s.seq = append(s.seq, ollama.NewToolMessage(call.Function.Name, result))
		}
	}

	return "", weather.ErrInternalServerError.Withf("no final response after %d tool turns", maxToolTurns)
}
