// Package agent runs tutoring conversation turns against the
// Anthropic API, dispatching the model's memory tool calls through the
// tool registry.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"

	"github.com/linguamem/linguamem/internal/tools"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 2048

	// maxToolRounds bounds how many tool-use exchanges one turn may
	// take before the runner gives up.
	maxToolRounds = 10
)

// Runner executes conversation turns for one process. It is stateless
// per turn: identity and service access travel in the TurnContext.
type Runner struct {
	client    *anthropic.Client
	registry  *tools.Registry
	model     string
	maxTokens int64
}

// Option configures the runner.
type Option func(*Runner)

// WithModel overrides the model id.
func WithModel(model string) Option {
	return func(r *Runner) { r.model = model }
}

// WithMaxTokens overrides the response token cap.
func WithMaxTokens(n int64) Option {
	return func(r *Runner) { r.maxTokens = n }
}

// New creates a Runner over the given client and tool registry.
func New(client *anthropic.Client, registry *tools.Registry, opts ...Option) *Runner {
	r := &Runner{
		client:    client,
		registry:  registry,
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunTurn processes one user message: it calls the model, dispatches
// any tool calls through the registry, and loops until the model stops
// requesting tools. Returns the assistant's text plus the updated
// message history for the next turn.
func (r *Runner) RunTurn(ctx context.Context, tc *tools.TurnContext, history []anthropic.MessageParam, userMessage string) (string, []anthropic.MessageParam, error) {
	turnID := uuid.New().String()
	messages := append(history, anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)))
	apiTools := toAPITools(r.registry.Definitions())

	for round := 0; round < maxToolRounds; round++ {
		if err := ctx.Err(); err != nil {
			return "", messages, fmt.Errorf("turn cancelled: %w", err)
		}

		resp, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(r.model),
			MaxTokens: r.maxTokens,
			Messages:  messages,
			System: []anthropic.TextBlockParam{
				{Text: systemPrompt},
			},
			Tools: apiTools,
		})
		if err != nil {
			return "", messages, fmt.Errorf("anthropic api: %w", err)
		}
		messages = append(messages, resp.ToParam())

		var text string
		var results []anthropic.ContentBlockParamUnion
		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				text += block.Text
			case "tool_use":
				input, _ := json.Marshal(block.Input)
				out := r.registry.Dispatch(ctx, tc, block.Name, input)
				log.Printf("[AGENT] turn %s: user %d tool %s -> %d bytes", turnID, tc.UserID, block.Name, len(out))
				results = append(results, anthropic.NewToolResultBlock(block.ID, out, false))
			}
		}

		if len(results) == 0 {
			return text, messages, nil
		}
		messages = append(messages, anthropic.NewUserMessage(results...))
	}

	return "", messages, fmt.Errorf("exceeded %d tool rounds in one turn", maxToolRounds)
}

func toAPITools(defs []tools.Definition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, d := range defs {
		props, _ := d.InputSchema["properties"].(map[string]any)
		var required []string
		if r, ok := d.InputSchema["required"].([]string); ok {
			required = r
		}
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        d.Name,
				Description: anthropic.String(d.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: props,
					Required:   required,
				},
			},
		})
	}
	return out
}
