package main

import (
	"context"
	"fmt"
	"os"

	"finn-mini/internal/app"
	"finn-mini/internal/tui"
	"finn-mini/pkg/config"
	"finn-mini/pkg/logger"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// finn-chat runs the chat pipeline in-process behind a terminal UI.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the TUI
	appLogger, err := logger.New(cfg.Logger.Level, "console")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	appLogger = appLogger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	defer appLogger.Sync()

	pipeline, err := app.Build(context.Background(), cfg, appLogger)
	if err != nil {
		fmt.Printf("Failed to load knowledge base: %v\n", err)
		os.Exit(1)
	}
	defer pipeline.Close()

	stats := pipeline.Chat.Stats()
	summary := fmt.Sprintf("%d chunks from %s, embeddings: %s (%d dims)",
		stats.Chunks, cfg.Knowledge.Dir, stats.ModelName, stats.Dimension)

	model := tui.New(pipeline.Chat, summary, cfg.Server.RequestTimeout)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Printf("TUI error: %v\n", err)
		os.Exit(1)
	}
}
