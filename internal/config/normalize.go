package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLabels()
	c.normalizeScan()
	c.normalizeJournal()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.RootDir) != "" {
		if c.Paths.RootDir, err = expandPath(c.Paths.RootDir); err != nil {
			return fmt.Errorf("paths.root_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLabels() {
	c.Labels.CenterDir = strings.TrimSpace(c.Labels.CenterDir)
	if c.Labels.CenterDir == "" {
		c.Labels.CenterDir = defaultCenterDir
	}
	c.Labels.NotCenterDir = strings.TrimSpace(c.Labels.NotCenterDir)
	if c.Labels.NotCenterDir == "" {
		c.Labels.NotCenterDir = defaultNotCenterDir
	}
}

func (c *Config) normalizeScan() {
	if len(c.Scan.Extensions) == 0 {
		c.Scan.Extensions = defaultExtensions()
		return
	}
	normalized := make([]string, 0, len(c.Scan.Extensions))
	seen := map[string]struct{}{}
	for _, ext := range c.Scan.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		normalized = append(normalized, ext)
	}
	c.Scan.Extensions = normalized
}

func (c *Config) normalizeJournal() {
	if c.Journal.MaxEntries <= 0 {
		c.Journal.MaxEntries = defaultJournalMaxEntries
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
