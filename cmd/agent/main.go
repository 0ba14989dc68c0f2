package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	// Packages
	kong "github.com/alecthomas/kong"
	client "github.com/mutablelogic/go-client"
	agent "github.com/weatherlab/go-weather-mcp/pkg/agent"
	mcp "github.com/weatherlab/go-weather-mcp/pkg/mcp"
	mcpclient "github.com/weatherlab/go-weather-mcp/pkg/mcp/client"
	ollama "github.com/weatherlab/go-weather-mcp/pkg/ollama"
	version "github.com/weatherlab/go-weather-mcp/pkg/version"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type CLI struct {
	Endpoint string           `name:"endpoint" env:"OLLAMA_URL" default:"http://localhost:11434/api" help:"Ollama endpoint"`
	Model    string           `name:"model" env:"OLLAMA_MODEL" default:"qwen2.5:7b" help:"Model used for chat"`
	Debug    bool             `name:"debug" help:"Enable debug output"`
	Verbose  bool             `name:"verbose" help:"Enable verbose output"`
	Version  kong.VersionFlag `name:"version" help:"Print version and exit"`
	Server   []string         `arg:"" name:"server" passthrough:"" help:"MCP server command and arguments"`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description("Chat with a local model which can call weather tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version.Version()},
	)

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Client options
	clientopts := []client.ClientOpt{}
	if cli.Debug || cli.Verbose {
		clientopts = append(clientopts, client.OptTrace(os.Stderr, cli.Verbose))
	}

	// Create the model client
	model, err := ollama.New(cli.Endpoint, clientopts...)
	cmd.FatalIfErrorf(err)

	// Spawn the tool server and perform the handshake
	server := mcpclient.New(mcp.ClientInfo{
		Name:    execName(),
		Version: version.Version(),
	}, cli.Server[0], cli.Server[1:]...)
	cmd.FatalIfErrorf(server.Connect(ctx))
	defer server.Close()

	// Create the session and discover the server's tools
	session := agent.NewSession(model, server, cli.Model)
	cmd.FatalIfErrorf(session.Discover(ctx))

	names := make([]string, 0, len(session.Tools()))
	for _, tool := range session.Tools() {
		names = append(names, tool.Function.Name)
	}
	fmt.Println("Connected to server with tools:", strings.Join(names, ", "))

	// Run the chat loop
	cmd.FatalIfErrorf(chat(ctx, session))
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func chat(ctx context.Context, session *agent.Session) error {
	fmt.Println("Type your queries or 'quit' to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		switch {
		case input == "":
			continue
		case strings.EqualFold(input, "quit"), strings.EqualFold(input, "exit"):
			return nil
		}

		reply, err := session.FromUser(ctx, input)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			continue
		}
		fmt.Println(reply)
	}
	return scanner.Err()
}

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	}
	return filepath.Base(name)
}
