package ollama_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	assert "github.com/stretchr/testify/assert"
	ollama "github.com/weatherlab/go-weather-mcp/pkg/ollama"
)

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_chat_001(t *testing.T) {
	assert := assert.New(t)

	// The mock model echoes the last user message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal("/chat", r.URL.Path)

		var req struct {
			Model    string           `json:"model"`
			Messages []ollama.Message `json:"messages"`
			Stream   bool             `json:"stream"`
		}
		assert.NoError(json.NewDecoder(r.Body).Decode(&req))
		assert.Equal("qwen2.5:7b", req.Model)
		assert.False(req.Stream)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ollama.Response{
			Model:   req.Model,
			Message: ollama.Message{Role: "assistant", Content: req.Messages[len(req.Messages)-1].Content},
			Done:    true,
		})
	}))
	defer srv.Close()

	client, err := ollama.New(srv.URL)
	assert.NoError(err)
	assert.Equal("ollama", client.Name())

	response, err := client.Chat(t.Context(), "qwen2.5:7b", []ollama.Message{
		ollama.NewSystemMessage("You are a helpful assistant."),
		ollama.NewUserMessage("hello"),
	})
	assert.NoError(err)
	assert.Equal("assistant", response.Message.Role)
	assert.Equal("hello", response.Message.Content)
	assert.True(response.Done)
}

func Test_chat_002(t *testing.T) {
	assert := assert.New(t)

	// The mock model requests a tool call when tools are offered
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Tools []ollama.Tool `json:"tools"`
		}
		assert.NoError(json.NewDecoder(r.Body).Decode(&req))
		if !assert.Len(req.Tools, 1) {
			return
		}
		assert.Equal("function", req.Tools[0].Type)
		assert.Equal("get_alerts", req.Tools[0].Function.Name)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ollama.Response{
			Message: ollama.Message{
				Role: "assistant",
				ToolCalls: []ollama.ToolCall{
					{Function: ollama.ToolCallFunction{Name: "get_alerts", Arguments: map[string]any{"state": "CA"}}},
				},
			},
			Done: true,
		})
	}))
	defer srv.Close()

	client, err := ollama.New(srv.URL)
	assert.NoError(err)

	schema := json.RawMessage(`{"type":"object","properties":{"state":{"type":"string"}}}`)
	response, err := client.Chat(t.Context(), "qwen2.5:7b",
		[]ollama.Message{ollama.NewUserMessage("alerts for CA?")},
		ollama.WithTools(ollama.NewTool("get_alerts", "Get weather alerts for a US state.", schema)),
	)
	assert.NoError(err)
	if assert.Len(response.Message.ToolCalls, 1) {
		call := response.Message.ToolCalls[0]
		assert.Equal("get_alerts", call.Function.Name)
		assert.Equal("CA", call.Function.Arguments["state"])
	}
}
