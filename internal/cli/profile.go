package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show a user's full memory grouped by category",
		Long:  "The profile read path: every memory item the user has, grouped by category.",
		Run:   runProfile,
	}

	cmd.Flags().Int64P("user", "u", 0, "User id (required)")
	cmd.MarkFlagRequired("user")

	RootCmd.AddCommand(cmd)
}

func runProfile(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetInt64("user")

	svc, s, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	grouped, err := svc.UserMemory(cmd.Context(), user)
	if err != nil {
		exitErr("profile", err)
	}

	b, _ := json.MarshalIndent(grouped, "", "  ")
	fmt.Println(string(b))
}
