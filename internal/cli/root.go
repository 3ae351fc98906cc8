// Package cli implements the linguamem CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/linguamem/linguamem/internal/service"
	"github.com/linguamem/linguamem/internal/store"
	"github.com/spf13/cobra"
)

var dbPath string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "linguamem",
	Short: "Long-term student memory for a language-tutoring agent",
	Long: "Stores categorized facts about language students (personal info, areas to improve,\n" +
		"knowledge strengths), merges agent-supplied updates into them, and serves size-bounded\n" +
		"snapshots back into the tutoring agent's context. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $LINGUAMEM_DB or ~/.linguamem/memory.db)")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("LINGUAMEM_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".linguamem", "memory.db")
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func openService() (*service.Service, *store.SQLiteStore, error) {
	s, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	return service.New(s), s, nil
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
