package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/handiism/bootleg-splitter/internal/config"
	"github.com/handiism/bootleg-splitter/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	settingsOnce sync.Once
	settings     *config.Settings
	settingsErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) configPath() string {
	if c.configFlag != nil {
		if path := strings.TrimSpace(*c.configFlag); path != "" {
			return path
		}
	}
	return config.DefaultPath()
}

func (c *commandContext) ensureSettings() (*config.Settings, error) {
	c.settingsOnce.Do(func() {
		settings, err := config.Load(c.configPath())
		if err != nil {
			c.settingsErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			settings.LogLevel = strings.TrimSpace(*c.logLevelFlag)
		}
		if err := settings.Validate(); err != nil {
			c.settingsErr = fmt.Errorf("invalid configuration %s: %w", c.configPath(), err)
			return
		}
		c.settings = settings
	})
	return c.settings, c.settingsErr
}

func (c *commandContext) logger(w io.Writer, colorize bool) (*slog.Logger, error) {
	settings, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:   settings.LogLevel,
		Format:  settings.LogFormat,
		Output:  w,
		NoColor: !colorize,
	})
}
