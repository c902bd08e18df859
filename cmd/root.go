package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillpilot/internal/content"
	"github.com/abhisek/skillpilot/internal/learner"
	"github.com/abhisek/skillpilot/internal/llm"
	"github.com/abhisek/skillpilot/internal/program"
	"github.com/abhisek/skillpilot/internal/review"
	"github.com/abhisek/skillpilot/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "skillpilot",
	Short: "Adaptive skill graph engine for analytics upskilling",
	Long: `SkillPilot classifies learners into personas, unlocks a personalized
skill tree as hands-on use cases are completed, and tracks a weekly
program journey graded by an LLM reviewer.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SKILLPILOT_DB env var)")
	rootCmd.PersistentFlags().String("content", "", "Directory of content YAML files (overrides SKILLPILOT_CONTENT_DIR; default: built-in)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(journeyCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(learnersCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SKILLPILOT_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// newLogger builds the stderr text logger. --verbose wins over
// SKILLPILOT_LOG_LEVEL.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToLower(os.Getenv("SKILLPILOT_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadCatalog loads content from --content, SKILLPILOT_CONTENT_DIR, or the
// built-in set.
func loadCatalog(cmd *cobra.Command) (*content.Catalog, error) {
	dir, _ := cmd.Flags().GetString("content")
	if dir == "" {
		dir = os.Getenv("SKILLPILOT_CONTENT_DIR")
	}
	if dir == "" {
		return content.LoadBuiltin()
	}
	return content.LoadDir(dir)
}

// env bundles what most commands need.
type env struct {
	store  *store.Store
	svc    *learner.Service
	logger *slog.Logger
}

func (e *env) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
}

// reviewerMode selects whether openEnv builds an LLM reviewer.
type reviewerMode int

const (
	reviewerNone reviewerMode = iota
	reviewerOptional
	reviewerRequired
)

// openEnv opens the store and builds the learner service. Without a store
// (noDB) the service runs in memory only.
func openEnv(cmd *cobra.Command, mode reviewerMode, noDB bool) (*env, error) {
	logger := newLogger(cmd)
	catalog, err := loadCatalog(cmd)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}

	e := &env{logger: logger}
	var (
		profiles store.ProfileRepo
		events   store.EventRepo
	)
	if !noDB {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		logger.Debug("store opened", "path", dbPath)
		e.store = st
		profiles = st.ProfileRepo()
		events = st.EventRepo()
	}

	var reviewer program.Reviewer
	if mode != reviewerNone {
		r, err := newReviewer(cmd, events)
		switch {
		case err == nil:
			reviewer = r
		case mode == reviewerRequired:
			e.Close()
			return nil, err
		default:
			logger.Warn("LLM reviewer unavailable, week reviews disabled", "error", err)
		}
	}

	e.svc = learner.NewService(catalog, profiles, events, reviewer, logger)
	return e, nil
}

func newReviewer(cmd *cobra.Command, events store.EventRepo) (*review.LLMReviewer, error) {
	cfg, err := llm.ResolveConfig()
	if err != nil {
		return nil, err
	}
	provider, err := llm.NewProvider(cmd.Context(), cfg, events)
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	return review.NewLLMReviewer(provider, review.DefaultConfig()), nil
}
