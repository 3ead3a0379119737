package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/lending/internal/database"
	"github.com/mrlokans/lending/internal/database/integrity"
)

// SweepCommand reports or removes orphaned join rows.
type SweepCommand struct {
	DatabaseURL string
	DryRun      bool

	out io.Writer
}

func NewSweepCommand() *SweepCommand {
	return &SweepCommand{out: os.Stdout}
}

func (cmd *SweepCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabaseURL, "db", defaultDatabaseURL(), "Database path or sqlite:// URL")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Count orphaned rows without deleting them")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sweep [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Remove library stock, membership and loan rows whose book, library\n")
		fmt.Fprintf(os.Stderr, "or member no longer exists.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Preview what would be removed:\n")
		fmt.Fprintf(os.Stderr, "  %s sweep -db ./lending.db -dry-run\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.DatabaseURL == "" {
		return fmt.Errorf("database path must not be empty")
	}
	return nil
}

func (cmd *SweepCommand) Run() error {
	path := database.PathFromURL(cmd.DatabaseURL)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("database not found: %s", path)
	}

	fmt.Fprintln(cmd.out, "Orphan Sweep")
	fmt.Fprintln(cmd.out, "============")
	if cmd.DryRun {
		fmt.Fprintln(cmd.out, "DRY RUN MODE - No changes will be made")
	}

	db, err := openQuiet(path)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := integrity.NewRepository(db)
	ctx := context.Background()

	var report integrity.OrphanReport
	if cmd.DryRun {
		report, err = repo.CountOrphans(ctx)
	} else {
		report, err = repo.SweepOrphans(ctx)
	}
	if err != nil {
		return err
	}

	verb := "Removed"
	if cmd.DryRun {
		verb = "Found"
	}
	fmt.Fprintf(cmd.out, "\n%s %d orphaned rows\n", verb, report.Total())
	fmt.Fprintf(cmd.out, "  library_books:   %d\n", report.LibraryBooks)
	fmt.Fprintf(cmd.out, "  library_members: %d\n", report.LibraryMembers)
	fmt.Fprintf(cmd.out, "  borrowed_books:  %d\n", report.BorrowedBooks)
	return nil
}
