// Package app wires the client's services using go.uber.org/dig.
package app

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/dig"

	"github.com/windlant/mcp-toolbridge/internal/agent"
	"github.com/windlant/mcp-toolbridge/internal/config"
	"github.com/windlant/mcp-toolbridge/internal/model"
	"github.com/windlant/mcp-toolbridge/internal/tools"
	"github.com/windlant/mcp-toolbridge/internal/tools/manage/registry"
	"github.com/windlant/mcp-toolbridge/internal/tools/stdio"
)

// Connector opens the tool channel described by cfg.
type Connector func(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (tools.ToolClient, error)

// ModelFactory builds the model backend described by cfg.
type ModelFactory func(cfg *config.Config) (model.Model, error)

// Container holds the resolved singletons. Callers never import dig.
type Container struct {
	agent  *agent.Agent
	tools  *registry.Registry
	client tools.ToolClient
}

func (c *Container) Agent() *agent.Agent          { return c.agent }
func (c *Container) Tools() *registry.Registry    { return c.tools }
func (c *Container) ToolClient() tools.ToolClient { return c.client }

type options struct {
	connect  Connector
	newModel ModelFactory
}

type Option func(*options)

// WithConnector replaces the child-process launcher, e.g. with an in-process server.
func WithConnector(fn Connector) Option {
	return func(o *options) { o.connect = fn }
}

func WithModelFactory(fn ModelFactory) Option {
	return func(o *options) { o.newModel = fn }
}

// StdioConnector launches cfg.Server.ScriptPath as a child process.
func StdioConnector(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (tools.ToolClient, error) {
	return stdio.NewStdioToolClient(ctx, cfg.Server.ScriptPath, cfg.Server.Args, cfg.ServerEnv(), logger)
}

// New connects to the tool server, discovers its tools and builds the agent.
// If anything after the connection fails, the tool channel is closed before
// returning. Errors keep their errs kind.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts ...Option) (*Container, error) {
	o := options{connect: StdioConnector, newModel: model.New}
	for _, opt := range opts {
		opt(&o)
	}

	var opened tools.ToolClient
	d := dig.New()

	providers := []any{
		func() context.Context { return ctx },
		func() *config.Config { return cfg },
		func() zerolog.Logger { return logger },
		func(cfg *config.Config) (model.Model, error) { return o.newModel(cfg) },
		func(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (tools.ToolClient, error) {
			c, err := o.connect(ctx, cfg, logger)
			if err != nil {
				return nil, err
			}
			opened = c
			return c, nil
		},
		func(ctx context.Context, c tools.ToolClient) (*registry.Registry, error) {
			return registry.Discover(ctx, c)
		},
		newAgent,
	}
	for _, p := range providers {
		if err := d.Provide(p); err != nil {
			return nil, err
		}
	}

	var result *Container
	err := d.Invoke(func(a *agent.Agent, reg *registry.Registry, c tools.ToolClient) {
		result = &Container{agent: a, tools: reg, client: c}
	})
	if err != nil {
		if opened != nil {
			if cerr := opened.Close(); cerr != nil {
				logger.Warn().Err(cerr).Msg("closing tool channel after startup failure")
			}
		}
		return nil, dig.RootCause(err)
	}
	logger.Info().Int("count", result.tools.Len()).Strs("tools", result.tools.Names()).Msg("tools discovered")
	return result, nil
}

func newAgent(cfg *config.Config, m model.Model, reg *registry.Registry, c tools.ToolClient, logger zerolog.Logger) *agent.Agent {
	return agent.NewAgent(agent.Options{
		Model:     m,
		ModelName: cfg.Model.ModelName,
		Tools:     reg,
		Client:    c,
		Timeout:   cfg.Timeout,
		Logger:    logger,
	})
}
