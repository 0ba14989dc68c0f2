package ollama

import (
	"context"
	"encoding/json"
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	weather "github.com/weatherlab/go-weather-mcp"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Chat Response
type Response struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Message   Message   `json:"message"`
	Done      bool      `json:"done"`
	Reason    string    `json:"done_reason,omitempty"`
	Metrics
}

// Metrics
type Metrics struct {
	TotalDuration      time.Duration `json:"total_duration,omitempty"`
	LoadDuration       time.Duration `json:"load_duration,omitempty"`
	PromptEvalCount    int           `json:"prompt_eval_count,omitempty"`
	PromptEvalDuration time.Duration `json:"prompt_eval_duration,omitempty"`
	EvalCount          int           `json:"eval_count,omitempty"`
	EvalDuration       time.Duration `json:"eval_duration,omitempty"`
}

type reqChat struct {
	Model     string         `json:"model"`
	Messages  []Message      `json:"messages"`
	Tools     []Tool         `json:"tools,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
	Stream    bool           `json:"stream"`
	KeepAlive *time.Duration `json:"keep_alive,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r Response) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Chat submits the conversation to the model and returns its reply,
// which may carry tool calls rather than text.
func (ollama *Client) Chat(ctx context.Context, model string, messages []Message, opts ...Opt) (*Response, error) {
	// Apply options
	opt, err := apply(opts...)
	if err != nil {
		return nil, err
	}

	// Request
	req, err := client.NewJSONRequest(reqChat{
		Model:     model,
		Messages:  messages,
		Tools:     opt.tools,
		Options:   opt.options,
		Stream:    opt.stream != nil,
		KeepAlive: opt.keepalive,
	})
	if err != nil {
		return nil, err
	}

	// Without a stream callback, decode a single response object
	if opt.stream == nil {
		var response Response
		if err := ollama.DoWithContext(ctx, req, &response, client.OptPath("chat")); err != nil {
			return nil, err
		}
		return &response, nil
	}

	// Accumulate streamed deltas into a single response
	var response, delta Response
	if err := ollama.DoWithContext(ctx, req, &delta, client.OptPath("chat"), client.OptJsonStreamCallback(func(v any) error {
		if v, ok := v.(*Response); !ok || v == nil {
			return weather.ErrConflict.Withf("invalid stream response: %v", v)
		} else {
			response.Model = v.Model
			response.CreatedAt = v.CreatedAt
			response.Message.Role = v.Message.Role
			response.Message.Content += v.Message.Content
			response.Message.ToolCalls = append(response.Message.ToolCalls, v.Message.ToolCalls...)
			if v.Done {
				response.Done = v.Done
				response.Metrics = v.Metrics
				response.Reason = v.Reason
			}
		}

		opt.stream(&response)
		return nil
	})); err != nil {
		return nil, err
	}

	return &response, nil
}
