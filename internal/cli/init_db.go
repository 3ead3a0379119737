package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/lending/internal/config"
	"github.com/mrlokans/lending/internal/database"
)

// InitDBCommand creates the lending schema in a new or existing database.
type InitDBCommand struct {
	DatabaseURL string
	Verbose     bool

	out io.Writer
}

func NewInitDBCommand() *InitDBCommand {
	return &InitDBCommand{out: os.Stdout}
}

func (cmd *InitDBCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("init-db", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabaseURL, "db", defaultDatabaseURL(), "Database path or sqlite:// URL")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "List the tables after creating them")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s init-db [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create the lending tables. Existing tables and rows are left alone.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s init-db -db ./lending.db\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s init-db -db sqlite:///var/lib/lending/lending.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.DatabaseURL == "" {
		return fmt.Errorf("database path must not be empty")
	}
	return nil
}

func (cmd *InitDBCommand) Run() error {
	path := database.PathFromURL(cmd.DatabaseURL)
	fmt.Fprintf(cmd.out, "Initializing database at %s\n", path)

	db, err := openQuiet(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		return err
	}

	if cmd.Verbose {
		for _, table := range database.Tables() {
			fmt.Fprintf(cmd.out, "  %s\n", table)
		}
	}
	fmt.Fprintln(cmd.out, "Done")
	return nil
}

// defaultDatabaseURL prefers DATABASE_URL so the commands act on the same
// store as the server.
func defaultDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return config.DefaultDatabaseURL
}

func openQuiet(path string) (*database.Database, error) {
	opts := database.DefaultOptions()
	opts.LogLevel = "silent"
	db, err := database.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
