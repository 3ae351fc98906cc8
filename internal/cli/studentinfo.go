package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "student-info",
		Short: "Print the budgeted conversation-start snapshot",
		Long: "The same size-bounded snapshot the agent's start_student_info tool returns:\n" +
			"active personal info plus struggling and improving areas, wrapped in markers.",
		Run: runStudentInfo,
	}

	cmd.Flags().Int64P("user", "u", 0, "User id (required)")
	cmd.MarkFlagRequired("user")

	RootCmd.AddCommand(cmd)
}

func runStudentInfo(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetInt64("user")

	svc, s, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	out, err := svc.StartStudentInfo(cmd.Context(), user)
	if err != nil {
		exitErr("student-info", err)
	}
	fmt.Println(out)
}
