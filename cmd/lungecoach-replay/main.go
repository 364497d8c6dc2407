package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/claude/lungecoach/internal/engine"
	"github.com/claude/lungecoach/internal/replay"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "LungeCoach server URL (e.g. https://lungecoach.tail1234.ts.net)")
	apiKey := flag.String("api-key", "", "API key for the server (or LUNGECOACH_AUTH_API_KEY)")
	dir := flag.String("path", "", "directory of .jsonl recordings")
	dryRun := flag.Bool("dry-run", false, "replay locally, don't send to server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("lungecoach-replay", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *dir == "" {
		fmt.Fprintf(os.Stderr, "Usage: lungecoach-replay -server <URL> -api-key <key> -path <recordings dir> [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *apiKey == "" {
		*apiKey = os.Getenv("LUNGECOACH_AUTH_API_KEY")
	}
	if !*dryRun {
		if *serverURL == "" {
			fmt.Fprintf(os.Stderr, "Error: -server is required (or use -dry-run)\n")
			os.Exit(1)
		}
		if *apiKey == "" {
			fmt.Fprintf(os.Stderr, "Error: -api-key is required (or use -dry-run)\n")
			os.Exit(1)
		}
	}

	*serverURL = strings.TrimRight(*serverURL, "/")

	info, err := os.Stat(*dir)
	if err != nil || !info.IsDir() {
		log.Error("recordings directory not found", "path", *dir)
		os.Exit(1)
	}

	// Open state database
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".lungecoach-replay")

	state, err := replay.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	// Create client (nil-safe in dry-run mode)
	var client *replay.Client
	if !*dryRun {
		client = replay.NewClient(*serverURL, *apiKey)
	}

	if *dryRun {
		log.Info("DRY RUN mode — recordings will be replayed locally, not sent")
	}

	replayer := replay.New(client, state, *dir, *dryRun, engine.DefaultTuning(), log)
	stats, err := replayer.Run()
	if err != nil {
		log.Error("replay failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	log.Info("replay complete")
}

func printStats(stats *replay.Stats) {
	fmt.Println()
	fmt.Println("=== Replay Summary ===")
	fmt.Printf("  Recordings total:    %d\n", stats.RecordingsTotal)
	fmt.Printf("  Recordings replayed: %d\n", stats.RecordingsReplayed)
	fmt.Printf("  Recordings skipped:  %d (already replayed)\n", stats.RecordingsSkipped)
	fmt.Printf("  Recordings errored:  %d\n", stats.RecordingsErrored)
	fmt.Println()
	fmt.Printf("  Frames sent:         %d\n", stats.FramesSent)
	fmt.Printf("  Reps counted:        %d\n", stats.RepsCounted)
	fmt.Println()
}
