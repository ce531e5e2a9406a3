package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pienaaranker/storypoints-sub000/internal/coach"
	"github.com/pienaaranker/storypoints-sub000/internal/config"
	"github.com/pienaaranker/storypoints-sub000/internal/content"
	"github.com/pienaaranker/storypoints-sub000/internal/learner"
	"github.com/pienaaranker/storypoints-sub000/internal/llm"
	"github.com/pienaaranker/storypoints-sub000/internal/logging"
	"github.com/pienaaranker/storypoints-sub000/internal/progression"
	"github.com/pienaaranker/storypoints-sub000/internal/store"
)

// env holds everything a command needs once flags and config are resolved.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *store.Store
	profile *learner.Profile
	catalog *content.Catalog
	coach   *coach.Service
}

// envOptions selects which optional parts of the env to build.
type envOptions struct {
	tui   bool // Log to a file so output never lands on the screen
	coach bool // Build the LLM provider when one is configured
}

// openEnv loads config, opens the store and restores the learner profile.
// Callers must call close.
func openEnv(cmd *cobra.Command, opts envOptions) (*env, error) {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cmd, cfg, opts.tui)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logger: logger}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, e.fail(fmt.Errorf("resolve database path: %w", err))
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, e.fail(fmt.Errorf("open store %s: %w", dbPath, err))
	}
	e.store = st

	e.catalog, err = loadCatalog(cfg)
	if err != nil {
		return nil, e.fail(err)
	}

	criteria, err := cfg.Curriculum()
	if err != nil {
		return nil, e.fail(fmt.Errorf("build curriculum: %w", err))
	}

	e.profile, err = learner.Open(ctx, learner.Options{
		Learner:          cfg.Learner,
		Engine:           progression.New(criteria),
		Snapshots:        st.SnapshotRepo(),
		Events:           st.EventRepo(),
		Tx:               st,
		Logger:           logger,
		SnapshotsToKeep:  cfg.SnapshotsToKeep,
		SuccessThreshold: cfg.SuccessThreshold,
	})
	if err != nil {
		return nil, e.fail(fmt.Errorf("open learner %q: %w", cfg.Learner, err))
	}

	var provider llm.Provider
	if opts.coach && cfg.Coach.Enabled {
		provider = e.newProvider(cmd)
	}
	e.coach = coach.NewService(provider, coach.DefaultConfig(), logger)

	logger.Debug("environment ready",
		zap.String("learner", cfg.Learner),
		zap.String("db", dbPath),
		zap.Bool("coach", e.coach.Enabled()),
	)
	return e, nil
}

// newProvider returns nil when no provider is configured; the coach then
// falls back to summary-only feedback.
func (e *env) newProvider(cmd *cobra.Command) llm.Provider {
	llmCfg, ok := llm.Resolve()
	if !ok {
		e.logger.Info("no LLM provider configured, coach disabled")
		return nil
	}
	llmCfg.Timeout = e.cfg.Coach.HintTimeout()
	p, err := llm.NewProvider(cmd.Context(), llmCfg, e.store.EventRepo(), e.logger)
	if err != nil {
		e.logger.Warn("LLM provider unavailable, coach disabled", zap.Error(err))
		return nil
	}
	return p
}

// fail logs err, releases whatever was opened so far and returns err.
func (e *env) fail(err error) error {
	e.logger.Error("open environment failed", zap.Error(err))
	e.close()
	return err
}

func (e *env) close() {
	if e.coach != nil {
		e.coach.Wait()
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("close store", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if name, _ := cmd.Flags().GetString("learner"); name != "" {
		cfg.Learner = name
	}
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		cfg.CatalogPath = p
	}
	return cfg, nil
}

// newLogger writes to the default log file unless a file is configured or
// --verbose asks for stderr on a non-interactive command.
func newLogger(cmd *cobra.Command, cfg *config.Config, tui bool) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	fallback := ""
	if tui || !verbose {
		p, err := config.DefaultLogPath()
		if err != nil {
			return nil, fmt.Errorf("resolve log path: %w", err)
		}
		fallback = p
	}
	logger, err := logging.New(logging.FromConfig(cfg.Logging, fallback, verbose))
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file or STORYPOINTS_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DatabasePath != "" {
		return cfg.DatabasePath, store.EnsureDir(cfg.DatabasePath)
	}
	return store.DefaultDBPath()
}

func loadCatalog(cfg *config.Config) (*content.Catalog, error) {
	if cfg.CatalogPath == "" {
		cat, err := content.DefaultCatalog()
		if err != nil {
			return nil, fmt.Errorf("load built-in catalog: %w", err)
		}
		return cat, nil
	}
	cat, err := content.LoadCatalogFile(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", cfg.CatalogPath, err)
	}
	return cat, nil
}
