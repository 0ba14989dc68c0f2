package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	// Packages
	kong "github.com/alecthomas/kong"
	client "github.com/mutablelogic/go-client"
	mcp "github.com/weatherlab/go-weather-mcp/pkg/mcp"
	nws "github.com/weatherlab/go-weather-mcp/pkg/nws"
	tool "github.com/weatherlab/go-weather-mcp/pkg/tool"
	version "github.com/weatherlab/go-weather-mcp/pkg/version"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type CLI struct {
	Debug           bool             `name:"debug" help:"Enable debug output"`
	Verbose         bool             `name:"verbose" help:"Enable verbose output"`
	ForecastPeriods int              `name:"forecast-periods" default:"5" help:"Number of upcoming forecast periods to return"`
	Version         kong.VersionFlag `name:"version" help:"Print version and exit"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const serverName = "weather"

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name("weather-mcp"),
		kong.Description("Weather tool server over the Model Context Protocol"),
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

	// Create the weather tools
	weather, err := nws.New(clientopts...)
	cmd.FatalIfErrorf(err)
	toolkit, err := tool.NewToolkit(
		nws.NewAlertsTool(weather),
		nws.NewForecastTool(weather, cli.ForecastPeriods),
	)
	cmd.FatalIfErrorf(err)

	// Create the server
	server, err := mcp.New(serverName, version.Version(), mcp.WithToolkit(toolkit))
	cmd.FatalIfErrorf(err)

	// Run over stdio until the input stream closes
	fmt.Fprintln(os.Stderr, "Running MCP server...")
	defer fmt.Fprintln(os.Stderr, "MCP server stopped", ctx.Err())
	if err := server.RunStdio(ctx, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(-1)
	}
}
