package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/linguamem/linguamem/internal/agent"
	"github.com/linguamem/linguamem/internal/tools"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive tutoring session",
		Long: "Start an interactive tutoring session for one student. Requires ANTHROPIC_API_KEY.\n" +
			"The assistant reads and updates the student's memory through its tools as you talk.",
		Run: runChat,
	}

	cmd.Flags().Int64P("user", "u", 0, "User id (required)")
	cmd.Flags().StringP("model", "m", "", "Override the model id")
	cmd.MarkFlagRequired("user")

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	user, _ := cmd.Flags().GetInt64("user")
	modelID, _ := cmd.Flags().GetString("model")

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		exitErr("chat", fmt.Errorf("ANTHROPIC_API_KEY not set"))
	}

	svc, s, err := openService()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	var opts []agent.Option
	if modelID != "" {
		opts = append(opts, agent.WithModel(modelID))
	}
	runner := agent.New(&client, tools.NewMemoryRegistry(), opts...)

	tc := &tools.TurnContext{UserID: user, Service: svc}

	// Show the same snapshot the agent's start_student_info tool returns.
	info, err := svc.StartStudentInfo(cmd.Context(), user)
	if err != nil {
		exitErr("student info", err)
	}
	fmt.Println(info)
	fmt.Println("Type a message, or /quit to exit.")

	var history []anthropic.MessageParam
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			break
		}

		reply, updated, err := runner.RunTurn(cmd.Context(), tc, history, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		history = updated
		fmt.Println(reply)
	}
}
