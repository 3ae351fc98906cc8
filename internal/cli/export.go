package cli

import (
	"encoding/json"
	"fmt"

	"github.com/linguamem/linguamem/internal/model"
	"github.com/linguamem/linguamem/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export memory items as JSON",
		Long:  "Export all memory items, optionally scoped to one user or category.",
		Run:   runExport,
	}

	cmd.Flags().Int64P("user", "u", 0, "Scope to one user id")
	cmd.Flags().StringP("category", "c", "", "Scope to one category")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetInt64("user")
	category, _ := cmd.Flags().GetString("category")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	items, err := s.ExportAll(cmd.Context(), store.ExportParams{
		UserID:   user,
		Category: model.Category(category),
	})
	if err != nil {
		exitErr("export", err)
	}

	b, _ := json.MarshalIndent(items, "", "  ")
	fmt.Println(string(b))
}
