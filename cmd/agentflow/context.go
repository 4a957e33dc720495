package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"agentflow/internal/config"
	"agentflow/internal/editorapi"
	"agentflow/internal/logging"
)

type globalFlags struct {
	config   string
	apiURL   string
	logLevel string
	json     bool
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	clientOnce sync.Once
	client     *editorapi.Client
	logger     *slog.Logger
	clientErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		if url := strings.TrimSuffix(strings.TrimSpace(c.flags.apiURL), "/"); url != "" {
			cfg.API.BaseURL = url
		}
		if level := strings.TrimSpace(c.flags.logLevel); level != "" {
			cfg.Logging.Level = level
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// apiClient builds the editor client and session logger once per invocation.
func (c *commandContext) apiClient() (*editorapi.Client, error) {
	c.clientOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.clientErr = err
			return
		}
		base, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.clientErr = fmt.Errorf("init logging: %w", err)
			return
		}
		logger, _ := logging.WithSession(base)
		c.logger = logging.NewComponentLogger(logger, "cli")
		c.client = editorapi.New(cfg.API.BaseURL,
			editorapi.WithLogger(logger),
			editorapi.WithUserAgent(cfg.API.UserAgent),
		)
	})
	return c.client, c.clientErr
}

func (c *commandContext) withClient(fn func(*editorapi.Client) error) error {
	client, err := c.apiClient()
	if err != nil {
		return err
	}
	return describeAPIError(fn(client))
}

func (c *commandContext) jsonOutput() bool {
	if c.flags.json {
		return true
	}
	cfg, err := c.ensureConfig()
	return err == nil && cfg.Output.Format == "json"
}

// describeAPIError appends the HTTP status to backend failures. The fixed
// failure message stays first so it reads the same as in the web editor.
func describeAPIError(err error) error {
	var reqErr *editorapi.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("%w (HTTP %d)", err, reqErr.StatusCode)
	}
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
