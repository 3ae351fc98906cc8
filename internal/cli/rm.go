package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Delete a memory item by id",
		Run:   runRm,
	}

	cmd.Flags().Int64P("user", "u", 0, "User id (required)")
	cmd.Flags().StringP("id", "i", "", "Memory item id (required)")

	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("id")

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetInt64("user")
	id, _ := cmd.Flags().GetString("id")

	svc, s, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	msg, err := svc.DeleteItem(cmd.Context(), user, id)
	if err != nil {
		exitErr("rm", err)
	}

	fmt.Printf(`{"ok":true,"message":%q}`+"\n", msg)
}
