package cli

import (
	"encoding/json"
	"fmt"

	"github.com/linguamem/linguamem/internal/model"
	"github.com/linguamem/linguamem/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's memory items",
		Long:  "List memory items most-recently-updated first, with optional category/status filters.",
		Run:   runList,
	}

	cmd.Flags().Int64P("user", "u", 0, "User id (required)")
	cmd.Flags().StringP("category", "c", "", "Filter by category")
	cmd.Flags().StringP("status", "s", "", "Filter by status")
	cmd.Flags().IntP("limit", "l", 20, "Max results (capped at 100)")
	cmd.Flags().Int("offset", 0, "Skip this many results")
	cmd.Flags().Bool("keys-only", false, "Only output category/key pairs")

	cmd.MarkFlagRequired("user")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetInt64("user")
	category, _ := cmd.Flags().GetString("category")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	keysOnly, _ := cmd.Flags().GetBool("keys-only")

	svc, s, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	items, err := svc.ListItems(cmd.Context(), user, service.ListOptions{
		Category: model.Category(category),
		Status:   model.Status(status),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		exitErr("list", err)
	}

	if keysOnly {
		for _, item := range items {
			fmt.Printf("%s/%s\n", item.Category, item.Key)
		}
		return
	}

	b, _ := json.MarshalIndent(items, "", "  ")
	fmt.Println(string(b))
}
