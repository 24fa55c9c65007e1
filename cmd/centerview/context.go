package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"centerview/internal/catalog"
	"centerview/internal/config"
	"centerview/internal/events"
	"centerview/internal/journal"
	"centerview/internal/logging"
	"centerview/internal/review"
	"centerview/internal/store"
)

type commandContext struct {
	configFlag *string
	rootFlag   *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, rootFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		rootFlag:   rootFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// resolveRoot picks the review root for this invocation: the --root flag when
// set, otherwise paths.root_dir from configuration.
func (c *commandContext) resolveRoot(cfg *config.Config) (string, error) {
	var root string
	if c.rootFlag != nil {
		root = strings.TrimSpace(*c.rootFlag)
	}
	if root == "" {
		root = cfg.Paths.RootDir
	}
	if root == "" {
		return "", fmt.Errorf("no review root given; pass --root or set paths.root_dir in the config")
	}
	return config.ExpandPath(root)
}

func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "centerview.log")},
	})
}

func labelDirs(cfg *config.Config) review.LabelDirs {
	return review.LabelDirs{
		Center:    cfg.Labels.CenterDir,
		NotCenter: cfg.Labels.NotCenterDir,
	}
}

// workspace bundles the loaded session with its persistence layers for one
// command invocation.
type workspace struct {
	cfg     *config.Config
	root    string
	logger  *slog.Logger
	session *review.Session
	store   *store.Store
	journal *journal.Journal
}

// openWorkspace scans the review root, builds a session over the result, and
// replays any pending marks persisted by earlier invocations.
func (c *commandContext) openWorkspace(ctx context.Context) (*workspace, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	root, err := c.resolveRoot(cfg)
	if err != nil {
		return nil, err
	}
	logger, err := c.newLogger(cfg)
	if err != nil {
		return nil, err
	}

	scanner := catalog.NewScanner(labelDirs(cfg), cfg.Scan.Extensions, logger)
	entries, err := scanner.Scan(root)
	if err != nil {
		return nil, err
	}

	session := review.NewSession(root, events.NewLogSink(logger))
	if err := session.Load(entries); err != nil {
		return nil, err
	}

	st, err := store.Open(root)
	if err != nil {
		return nil, err
	}

	valid := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		valid[entry.Path] = struct{}{}
	}
	stale, err := st.PruneMarks(ctx, valid)
	if err != nil {
		st.Close()
		return nil, err
	}
	if len(stale) > 0 {
		logger.Warn("dropped marks for files no longer present",
			logging.Int("count", len(stale)),
			logging.String(logging.FieldRoot, root),
		)
	}
	marks, err := st.Marks(ctx)
	if err != nil {
		st.Close()
		return nil, err
	}
	for path, label := range marks {
		if err := session.SetLabel(path, label); err != nil {
			st.Close()
			return nil, fmt.Errorf("replay mark for %s: %w", path, err)
		}
	}

	ws := &workspace{
		cfg:     cfg,
		root:    root,
		logger:  logger,
		session: session,
		store:   st,
	}
	if cfg.Journal.Enabled {
		jl, err := journal.Open(root, cfg.Journal.MaxEntries)
		if err != nil {
			st.Close()
			return nil, err
		}
		ws.journal = jl
	}
	return ws, nil
}

// Close flushes the journal and releases the mark store.
func (ws *workspace) Close() error {
	var first error
	if ws.journal != nil {
		if err := ws.journal.Close(); err != nil {
			first = err
		}
	}
	if err := ws.store.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
