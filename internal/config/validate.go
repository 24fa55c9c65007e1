package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLabels(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLabels() error {
	if c.Labels.CenterDir == "" {
		return errors.New("labels.center_dir must be set")
	}
	if c.Labels.NotCenterDir == "" {
		return errors.New("labels.not_center_dir must be set")
	}
	if c.Labels.CenterDir == c.Labels.NotCenterDir {
		return errors.New("labels.center_dir and labels.not_center_dir must differ")
	}
	for _, dir := range []string{c.Labels.CenterDir, c.Labels.NotCenterDir} {
		if strings.ContainsAny(dir, `/\`) {
			return fmt.Errorf("label directory %q must be a bare directory name", dir)
		}
	}
	return nil
}

func (c *Config) validateScan() error {
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must list at least one extension")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
