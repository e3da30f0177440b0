// cmd/mcp_client/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/windlant/mcp-toolbridge/internal/app"
	"github.com/windlant/mcp-toolbridge/internal/config"
	"github.com/windlant/mcp-toolbridge/internal/logging"
	"github.com/windlant/mcp-toolbridge/internal/session"
)

var rootCmd = &cobra.Command{
	Use:   "mcp_client",
	Short: "Chat with a model that can call tools on an MCP server",
	Long: `mcp_client launches the MCP tool server named by MCP_SERVER_SCRIPT_PATH
(.py, .js or .go), lists its tools and answers queries typed on stdin,
letting the model call those tools. Type 'quit' to exit.

Configuration is read from config/config.yaml (or MCP_CLIENT_CONFIG),
a .env file and the environment.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.Path(), config.DefaultEnvFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg.Log.Level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	c, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nConnected to server with tools: %v\n", c.Tools().Names())

	loop := session.New(c.Agent(), c.ToolClient(), cmd.InOrStdin(), out, cmd.ErrOrStderr(), logger)
	return loop.Run(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
