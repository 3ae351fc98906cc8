package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/linguamem/linguamem/internal/model"
	"github.com/linguamem/linguamem/internal/service"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "set [data-json]",
		Short: "Store or update memory items for a user",
		Long: "Apply a key -> content JSON object to a user's memory. Data can be a positional\n" +
			"arg or piped via stdin. With --op merge, structured values fold into existing content.",
		Run: runSet,
	}

	cmd.Flags().Int64P("user", "u", 0, "User id (required)")
	cmd.Flags().StringP("category", "c", "", "Category: personal_info, area_to_improve, knowledge_strength (required)")
	cmd.Flags().String("op", "merge", "Operation: merge or replace")
	cmd.Flags().StringP("status", "s", "", "Status applied to every written key")
	cmd.Flags().String("meta", "", "JSON metadata stored on every written key")

	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("category")

	RootCmd.AddCommand(cmd)
}

func runSet(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetInt64("user")
	category, _ := cmd.Flags().GetString("category")
	op, _ := cmd.Flags().GetString("op")
	status, _ := cmd.Flags().GetString("status")
	meta, _ := cmd.Flags().GetString("meta")

	var raw string
	if len(args) > 0 {
		raw = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			raw = string(b)
		}
	}
	if strings.TrimSpace(raw) == "" {
		exitErr("set", fmt.Errorf("data is required (positional arg or stdin)"))
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		exitErr("parse data", err)
	}

	svc, s, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	items, err := svc.UpdateMemory(cmd.Context(), user, service.UpdateParams{
		Category:  model.Category(category),
		Operation: service.Operation(op),
		Data:      data,
		Status:    model.Status(status),
		Meta:      meta,
	})
	if err != nil {
		exitErr("set", err)
	}

	b, _ := json.MarshalIndent(items, "", "  ")
	fmt.Println(string(b))
}
