package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	apppkg "github.com/sdrive-tools/sdrive/internal/app"
	"github.com/sdrive-tools/sdrive/internal/config"
	"github.com/sdrive-tools/sdrive/internal/logging"
)

func main() {
	// Set UTF-8 as fallback encoding so non-ASCII file names display
	// correctly on limited terminals.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	configPath := flag.String("config", config.DefaultPath(), "path to the config file")
	serverURL := flag.String("server", "", "store server URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}

	// Logging goes to a file: the terminal itself belongs to the UI.
	if err := logging.Init(logging.Config{Level: cfg.LogLevel, OutputPath: cfg.LogFile}); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	app, err := apppkg.NewApplication(cfg, logging.L())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing application: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()
}
