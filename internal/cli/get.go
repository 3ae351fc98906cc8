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
		Use:   "get",
		Short: "Retrieve one memory item",
		Run:   runGet,
	}

	cmd.Flags().Int64P("user", "u", 0, "User id (required)")
	cmd.Flags().StringP("category", "c", "", "Category (required)")
	cmd.Flags().StringP("key", "k", "", "Key (required)")

	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("key")

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetInt64("user")
	category, _ := cmd.Flags().GetString("category")
	key, _ := cmd.Flags().GetString("key")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	item, err := s.Get(cmd.Context(), store.GetParams{
		UserID:   user,
		Category: model.Category(category),
		Key:      key,
	})
	if err != nil {
		exitErr("get", err)
	}

	b, _ := json.MarshalIndent(item, "", "  ")
	fmt.Println(string(b))
}
