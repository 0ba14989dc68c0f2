package agent_test

import (
	"context"
	"encoding/json"
	"testing"

	assert "github.com/stretchr/testify/assert"
	agent "github.com/weatherlab/go-weather-mcp/pkg/agent"
	mcp "github.com/weatherlab/go-weather-mcp/pkg/mcp"
	ollama "github.com/weatherlab/go-weather-mcp/pkg/ollama"
)

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

// scriptedGenerator replays canned responses in order
type scriptedGenerator struct {
	responses []*ollama.Response
	calls     [][]ollama.Message
}

func (g *scriptedGenerator) Chat(_ context.Context, _ string, messages []ollama.Message, _ ...ollama.Opt) (*ollama.Response, error) {
	snapshot := make([]ollama.Message, len(messages))
	copy(snapshot, messages)
	g.calls = append(g.calls, snapshot)

	response := g.responses[0]
	g.responses = g.responses[1:]
	return response, nil
}

// recordingCaller records tool invocations and returns a fixed result
type recordingCaller struct {
	tools  []*mcp.Tool
	result string
	called []string
}

func (c *recordingCaller) ListTools(context.Context) ([]*mcp.Tool, error) {
	return c.tools, nil
}

func (c *recordingCaller) CallTool(_ context.Context, name string, _ map[string]any) (string, error) {
	c.called = append(c.called, name)
	return c.result, nil
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_session_001(t *testing.T) {
	assert := assert.New(t)

	caller := &recordingCaller{
		tools: []*mcp.Tool{
			{Name: "get_alerts", Description: "Get weather alerts for a US state.", InputSchema: json.RawMessage(`{"type":"object"}`)},
			{Name: "get_forecast", Description: "Get weather forecast for a location.", InputSchema: json.RawMessage(`{"type":"object"}`)},
		},
	}
	session := agent.NewSession(&scriptedGenerator{}, caller, "qwen2.5:7b")

	assert.NoError(session.Discover(t.Context()))
	if tools := session.Tools(); assert.Len(tools, 2) {
		assert.Equal("get_alerts", tools[0].Function.Name)
		assert.Equal("function", tools[0].Type)
	}

	// Conversation starts with just the system prompt
	messages := session.Messages()
	if assert.Len(messages, 1) {
		assert.Equal("system", messages[0].Role)
		assert.Equal(agent.SystemPrompt, messages[0].Content)
	}
}

func Test_session_002(t *testing.T) {
	assert := assert.New(t)

	// A reply without tool calls is final
	generator := &scriptedGenerator{
		responses: []*ollama.Response{
			{Message: ollama.Message{Role: "assistant", Content: "Hello!"}, Done: true},
		},
	}
	session := agent.NewSession(generator, &recordingCaller{}, "qwen2.5:7b")

	text, err := session.FromUser(t.Context(), "hi")
	assert.NoError(err)
	assert.Equal("Hello!", text)

	// Memory holds system, user, assistant in order
	messages := session.Messages()
	if assert.Len(messages, 3) {
		assert.Equal("system", messages[0].Role)
		assert.Equal("user", messages[1].Role)
		assert.Equal("hi", messages[1].Content)
		assert.Equal("assistant", messages[2].Role)
	}
}

func Test_session_003(t *testing.T) {
	assert := assert.New(t)

	// A tool call round trips through the caller and back into the chat
	generator := &scriptedGenerator{
		responses: []*ollama.Response{
			{Message: ollama.Message{
				Role: "assistant",
				ToolCalls: []ollama.ToolCall{
					{Function: ollama.ToolCallFunction{Name: "get_alerts", Arguments: map[string]any{"state": "CA"}}},
				},
			}},
			{Message: ollama.Message{Role: "assistant", Content: "There is a flood warning in Sacramento County."}, Done: true},
		},
	}
	caller := &recordingCaller{result: "Event: Flood Warning"}
	session := agent.NewSession(generator, caller, "qwen2.5:7b")

	text, err := session.FromUser(t.Context(), "any alerts in CA?")
	assert.NoError(err)
	assert.Equal("There is a flood warning in Sacramento County.", text)
	assert.Equal([]string{"get_alerts"}, caller.called)

	// The second chat round saw the tool result in the buffer
	if assert.Len(generator.calls, 2) {
		last := generator.calls[1][len(generator.calls[1])-1]
		assert.Equal("tool", last.Role)
		assert.Equal("get_alerts", last.Name)
		assert.Equal("Event: Flood Warning", last.Content)
	}
}

func Test_session_004(t *testing.T) {
	assert := assert.New(t)

	// A model that never stops calling tools is cut off
	responses := make([]*ollama.Response, 0, 8)
	for range 8 {
		responses = append(responses, &ollama.Response{Message: ollama.Message{
			Role: "assistant",
			ToolCalls: []ollama.ToolCall{
				{Function: ollama.ToolCallFunction{Name: "get_alerts"}},
			},
		}})
	}
	session := agent.NewSession(&scriptedGenerator{responses: responses}, &recordingCaller{result: "..."}, "qwen2.5:7b")

	_, err := session.FromUser(t.Context(), "loop forever")
	assert.Error(err)
}
