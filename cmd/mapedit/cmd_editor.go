package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/config"
	"github.com/jask/mapedit/internal/database"
	"github.com/jask/mapedit/internal/database/repository"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/logs"
	"github.com/jask/mapedit/internal/state"
	"github.com/jask/mapedit/internal/storage"
	"github.com/jask/mapedit/internal/tui"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

func runEditor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logFile, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	defer logFile.Close()

	if cfg.Editor.KML != "" {
		logrus.Warnf("KML overlays are not supported, ignoring %s", cfg.Editor.KML)
	}
	if err := input.Keys.ApplyOverrides(cfg.Keys); err != nil {
		return fmt.Errorf("key overrides: %w", err)
	}

	db, err := openDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	flags := world.Flags{
		MapPath:   cfg.Editor.Map,
		Seed:      cfg.Sim.Seed,
		RunName:   cfg.Sim.RunName,
		Savestate: cfg.Sim.Savestate,
	}
	m, err := ui.LoadMap(flags.MapPath)
	if err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	if err := database.SeedDefaults(ctx, db, m.Name()); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}

	// repositories
	colorRepo := repository.NewColorRepo(db)
	repos := &storage.Repos{
		Neighborhoods: repository.NewNeighborhoodRepo(db),
		Scenarios:     repository.NewScenarioRepo(db),
		Edits:         repository.NewEditsRepo(db),
		ABTests:       repository.NewABTestRepo(db),
		Savestates:    repository.NewSavestateRepo(db),
	}

	saved, err := colorRepo.All(ctx)
	if err != nil {
		return fmt.Errorf("load colors: %w", err)
	}
	cs := colors.NewScheme(saved, colorRepo)

	primary, err := ui.LoadPerMapUI(ctx, flags, repos)
	if err != nil {
		return err
	}
	logrus.Infof("Loaded %s: %d scenarios, %d edit sets", primary.Map.Name(),
		len(primary.Catalog.Scenarios()), len(primary.Catalog.Edits()))

	app := tui.New(state.NewDefaultUIState(primary, cfg.Editor.DebugControls, 1),
		cs, time.Duration(cfg.UI.FrameMS)*time.Millisecond)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// setupLogging sends logrus to the configured file and the in-app buffer.
func setupLogging(lc config.LogConfig) (*os.File, error) {
	level, err := logrus.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(lc.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(lc.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	logger := logrus.StandardLogger()
	logger.SetOutput(f)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	logs.Initialize(logger)
	return f, nil
}

func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.OpenAndMigrate(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}
