package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"showsearch/internal/app"
	"showsearch/internal/browse"
	"showsearch/internal/config"
	"showsearch/internal/logging"
	"showsearch/internal/repl"
)

func main() {
	searchQuery := flag.String("search", "", "search for shows, print the results and exit")
	showID := flag.Int("show", 0, "print a show with its cast and exit")
	configFlag := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("failed to resolve home directory: %v", err)
	}

	baseDir := filepath.Join(home, ".showsearch")
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		log.Fatalf("failed to create config directory: %v", err)
	}

	logPath := filepath.Join(baseDir, "showsearch.log")
	logFile := logging.Configure(logPath)
	defer logFile.Close()

	configPath := filepath.Join(baseDir, "config.yaml")
	if *configFlag != "" {
		configPath = *configFlag
	}
	cfg, err := config.Ensure(ctx, configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	application := app.New(cfg, configPath)
	defer application.Close()

	if *searchQuery != "" && *showID != 0 {
		fmt.Fprintln(os.Stderr, "error: --search and --show cannot be used together")
		os.Exit(1)
	}

	if *searchQuery != "" {
		if err := application.Search(ctx, *searchQuery); err != nil {
			fmt.Fprintf(os.Stderr, "error searching: %v\n", err)
			os.Exit(1)
		}
		printScreen(os.Stdout, application.Screen())
		return
	}

	if *showID != 0 {
		if *showID < 0 {
			fmt.Fprintln(os.Stderr, "error: --show needs a positive show id")
			os.Exit(1)
		}
		if err := application.OpenShow(ctx, *showID); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		printScreen(os.Stdout, application.Screen())
		return
	}

	if err := repl.Run(ctx, application); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printScreen(w io.Writer, screen browse.Screen) {
	fmt.Fprintln(w, screen.Title)
	if screen.Detail {
		fmt.Fprintf(w, "\n%s\n\nCast:\n", screen.Summary)
		for _, row := range screen.Rows {
			fmt.Fprintf(w, "  %s\n", row)
		}
		return
	}
	if len(screen.Rows) == 0 {
		fmt.Fprintln(w, "  no shows found")
		return
	}
	for i, row := range screen.Rows {
		fmt.Fprintf(w, "%3d. %s\n", i+1, row)
	}
}
