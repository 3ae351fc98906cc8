package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate legacy JSON memory blobs into memory items",
		Long: "One-shot migration: parses the three legacy JSON columns of every unmigrated\n" +
			"user into individual memory items with per-category default statuses, then marks\n" +
			"the user migrated. Malformed fields are logged and skipped.",
		Run: runMigrate,
	}

	RootCmd.AddCommand(cmd)
}

func runMigrate(cmd *cobra.Command, args []string) {
	svc, s, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	report, err := svc.MigrateLegacy(cmd.Context(), s)
	if err != nil {
		exitErr("migrate", err)
	}

	b, _ := json.Marshal(report)
	fmt.Println(string(b))
}
