package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/waimport/internal/config"
	"github.com/matheus3301/waimport/internal/importer"
	"github.com/matheus3301/waimport/internal/store"
	"go.uber.org/fx"
)

func main() {
	dbFlag := flag.String("db", "", "store path (overrides config default)")
	nameFlag := flag.String("name", "", "your full name, as it appears in exported chat .txt files")
	serverFlag := flag.String("server", "", "jid server domain")
	logFlag := flag.String("log", "", "also write JSON logs to this file")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	cfg, err := config.Load(config.Path())
	if err != nil {
		// The config file is optional; flags and defaults cover everything.
		cfg = &config.Config{}
	}

	storePath := config.Resolve(*dbFlag, cfg.StorePath, config.DefaultStorePath)
	ownName := config.Resolve(*nameFlag, cfg.OwnName, "")
	server := config.Resolve(*serverFlag, cfg.Server, config.DefaultServer)

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "import":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: waimport import <Chat with X.txt> [...]")
			os.Exit(1)
		}
		if ownName == "" {
			fmt.Fprintln(os.Stderr, "error: --name (or own_name in config.toml) is required for import")
			os.Exit(1)
		}
		p := importer.Params{
			StorePath: storePath,
			OwnName:   ownName,
			Server:    server,
			LogPath:   *logFlag,
		}
		cmdImport(p, args[1:], *jsonFlag)
	case "stats":
		cmdStats(storePath, *jsonFlag)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: waimport [--db <path>] [--name <full name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  import <file ...>   Import chat export transcripts into the store")
	fmt.Fprintln(os.Stderr, "  stats               Show store contents summary")
}

func cmdImport(p importer.Params, paths []string, jsonOut bool) {
	var imp *importer.Importer
	app := fx.New(
		importer.Module(p),
		fx.Populate(&imp),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	sum, runErr := imp.ImportAll(paths)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}

	if jsonOut {
		outputJSON(sum)
		return
	}
	for _, c := range sum.Chats {
		fmt.Printf("%-30s %d messages (chat %d)\n", c.Contact, c.Messages, c.ChatID)
	}
	fmt.Printf("Imported %d chats, %d messages\n", len(sum.Chats), sum.Messages)
}

func cmdStats(storePath string, jsonOut bool) {
	if _, err := os.Stat(storePath); err != nil {
		fmt.Fprintf(os.Stderr, "error: no store at %s\n", storePath)
		os.Exit(1)
	}
	db, _, err := store.Open(storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	stats, err := db.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if jsonOut {
		outputJSON(stats)
		return
	}
	fmt.Printf("Chats:    %d\n", stats.Chats)
	fmt.Printf("Messages: %d\n", stats.Messages)
	fmt.Printf("Runs:     %d\n", stats.Runs)
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}
