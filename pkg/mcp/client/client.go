// Package client implements an MCP client which spawns a server as a
// subprocess and exchanges newline-delimited JSON-RPC 2.0 messages over
// its standard input and output streams.
package client

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"

	// Packages
	weather "github.com/weatherlab/go-weather-mcp"
	mcp "github.com/weatherlab/go-weather-mcp/pkg/mcp"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client is an MCP client connected to a single server over stdio.
type Client struct {
	clientInfo mcp.ClientInfo

	// Private members
	cmd         *exec.Cmd          // non-nil when the server is a subprocess
	w           io.WriteCloser     // server stdin
	r           *bufio.Reader      // server stdout
	id          atomic.Int64       // request ID counter
	mu          sync.Mutex         // serializes request/response round trips
	initialized bool
	server      mcp.ResponseInitialize
}

// response mirrors mcp.Response with a raw result for decoding.
type response struct {
	Version string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Err     *mcp.Error      `json:"error,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a client which will spawn the given command as the MCP server
// when Connect is called.
func New(info mcp.ClientInfo, command string, args ...string) *Client {
	return &Client{
		clientInfo: info,
		cmd:        exec.Command(command, args...),
	}
}

// NewWithIO creates a client over an existing transport. The reader carries
// server output and the writer carries server input.
func NewWithIO(info mcp.ClientInfo, r io.Reader, w io.WriteCloser) *Client {
	return &Client{
		clientInfo: info,
		r:          bufio.NewReader(r),
		w:          w,
	}
}

// Connect starts the server subprocess (if any) and performs the MCP
// initialize handshake.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}

	// Spawn the server subprocess and wire up the pipes
	if c.cmd != nil {
		stdin, err := c.cmd.StdinPipe()
		if err != nil {
			return err
		}
		stdout, err := c.cmd.StdoutPipe()
		if err != nil {
			return err
		}
		stderr, err := c.cmd.StderrPipe()
		if err != nil {
			return err
		}
		if err := c.cmd.Start(); err != nil {
			return err
		}
		c.w = stdin
		c.r = bufio.NewReader(stdout)

		// Relay server diagnostics to our own stderr
		go relayStderr(stderr)
	}

	// Initialize handshake
	if err := c.initialize(ctx); err != nil {
		if c.cmd != nil && c.cmd.Process != nil {
			c.cmd.Process.Kill()
		}
		return err
	}

	c.initialized = true
	return nil
}

// Close terminates the connection. When the server is a subprocess its
// stdin is closed so it exits on EOF, then the process is reaped.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized && c.cmd == nil && c.w == nil {
		return nil
	}
	c.initialized = false

	var result error
	if c.w != nil {
		result = c.w.Close()
	}
	if c.cmd != nil && c.cmd.Process != nil {
		if err := c.cmd.Wait(); err != nil && result == nil {
			result = err
		}
	}
	return result
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ServerInfo returns the server information from the MCP handshake.
// Returns nil if the client has not yet been initialized.
func (c *Client) ServerInfo() *mcp.ResponseInitialize {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return nil
	}
	return &c.server
}

// Ping checks that the server is responsive.
func (c *Client) Ping(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.roundTrip(ctx, mcp.MessageTypePing, nil)
	return err
}

// ListTools returns the tools advertised by the server.
func (c *Client) ListTools(ctx context.Context) ([]*mcp.Tool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return nil, weather.ErrBadParameter.With("not connected")
	}

	result, err := c.roundTrip(ctx, mcp.MessageTypeListTools, mcp.RequestList{})
	if err != nil {
		return nil, err
	}

	var list mcp.ResponseListTools
	if err := json.Unmarshal(result, &list); err != nil {
		return nil, err
	}
	return list.Tools, nil
}

// CallTool invokes a named tool and returns its text content. A tool-level
// failure (isError) is still returned as text, since the result channel is
// text-only; only transport and protocol failures return an error.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return "", weather.ErrBadParameter.With("not connected")
	}

	result, err := c.roundTrip(ctx, mcp.MessageTypeCallTool, mcp.RequestToolCall{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", err
	}

	var call mcp.ResponseToolCall
	if err := json.Unmarshal(result, &call); err != nil {
		return "", err
	}

	// Concatenate the text content
	text := make([]string, 0, len(call.Content))
	for _, content := range call.Content {
		if content.Type == "text" {
			text = append(text, content.Text)
		}
	}
	return strings.Join(text, "\n"), nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// initialize performs the initialize request followed by the initialized
// notification. Must be called with c.mu held.
func (c *Client) initialize(ctx context.Context) error {
	result, err := c.roundTrip(ctx, mcp.MessageTypeInitialize, mcp.RequestInitialize{
		ProtocolVersion: mcp.ProtocolVersion,
		Capabilities:    map[string]any{},
		ClientInfo:      c.clientInfo,
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(result, &c.server); err != nil {
		return err
	}

	// Initialized notification has no ID and expects no response
	return c.write(mcp.Request{
		Version: mcp.RPCVersion,
		Method:  mcp.NotificationTypeInitialize,
	})
}

// roundTrip sends a request and blocks until the matching response arrives.
// Must be called with c.mu held.
func (c *Client) roundTrip(ctx context.Context, method string, params any) (json.RawMessage, error) {
	id := c.id.Add(1)

	var payload json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		payload = data
	}

	if err := c.write(mcp.Request{
		Version: mcp.RPCVersion,
		Method:  method,
		ID:      id,
		Payload: payload,
	}); err != nil {
		return nil, err
	}

	// Read lines until the response with our ID arrives, skipping
	// notifications and any unrelated messages
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, err := c.r.ReadBytes('\n')
		if err != nil {
			return nil, err
		}

		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if num, ok := resp.ID.(float64); !ok || int64(num) != id {
			continue
		}
		if resp.Err != nil {
			return nil, resp.Err
		}
		return resp.Result, nil
	}
}

// write sends one newline-delimited JSON-RPC message.
func (c *Client) write(msg mcp.Request) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = c.w.Write(append(data, '\n'))
	return err
}

// relayStderr logs server diagnostics line by line.
func relayStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.Printf("mcp: %s", scanner.Text())
	}
}
