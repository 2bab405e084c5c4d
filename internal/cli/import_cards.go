package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/darolishes/bondbridge/internal/cardimport"
	"github.com/darolishes/bondbridge/internal/config"
	"github.com/darolishes/bondbridge/internal/database"
	"github.com/darolishes/bondbridge/internal/database/cardsets"
	"github.com/darolishes/bondbridge/internal/database/sessions"
)

// ImportCardsCommand handles importing a card set from a JSON file.
type ImportCardsCommand struct {
	FilePath     string
	DatabasePath string
	Force        bool
	Verbose      bool
}

func NewImportCardsCommand() *ImportCardsCommand {
	return &ImportCardsCommand{}
}

func (cmd *ImportCardsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the card set JSON file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.BoolVar(&cmd.Force, "force", false, "Import even when a set with the same name already exists")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a card set from a JSON file into the local database.\n\n")
		fmt.Fprintf(os.Stderr, "Both the current set format and the legacy package format are accepted.\n")
		fmt.Fprintf(os.Stderr, "Legacy packages are converted on the fly.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file deep-questions.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -file legacy-package.json -force\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *ImportCardsCommand) Run() error {
	fmt.Println("Card Set Import")
	fmt.Println("===============")

	if _, err := os.Stat(cmd.FilePath); os.IsNotExist(err) {
		return fmt.Errorf("card set file not found: %s", cmd.FilePath)
	}

	fmt.Printf("File: %s\n", cmd.FilePath)
	fmt.Printf("Database: %s\n\n", cmd.DatabasePath)

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cardSetRepo := cardsets.NewRepository(db.DB)
	sessionRepo := sessions.NewRepository(db.DB)

	opts := []cardimport.Option{cardimport.WithSessionRecorder(sessionRepo)}
	if cmd.Force {
		opts = append(opts, cardimport.WithoutConflictCheck())
	}
	orchestrator := cardimport.NewOrchestrator(cardSetRepo, cardSetRepo, opts...)

	run := orchestrator.Import(context.Background(), cardimport.NewFileSource(cmd.FilePath))
	for progress := range run.Events() {
		if cmd.Verbose || progress.Status == cardimport.StatusError {
			fmt.Printf("  [%d/%d] %s\n", progress.Current, progress.Total, progress.Status)
		}
	}

	result := run.Result()
	if !result.Success() {
		return fmt.Errorf("import failed:\n%s", result.Err.Summary())
	}

	set := result.Set
	fmt.Printf("\nImported %q (%s)\n", set.Name, set.SetID)
	fmt.Printf("  Cards:      %d\n", set.Metadata.TotalCards)
	fmt.Printf("  Categories: %d\n", len(set.Metadata.Categories))
	fmt.Printf("  Difficulty: %d-%d\n", set.Metadata.DifficultyMin, set.Metadata.DifficultyMax)
	return nil
}
