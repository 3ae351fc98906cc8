// Package tools exposes the memory operations as named tools an LLM
// agent can invoke within a conversation turn. Failures come back as
// human-readable strings, never as raised errors, so the agent can
// recover conversationally.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/linguamem/linguamem/internal/service"
	"github.com/linguamem/linguamem/internal/store"
)

// TurnContext carries the per-turn runtime state every handler needs:
// the acting, already-authenticated user and the service to act
// through. A fresh value is built for each conversation turn; nothing
// here is global.
type TurnContext struct {
	UserID  int64
	Service *service.Service
}

// Handler executes one tool call and returns the agent-facing result.
type Handler func(ctx context.Context, tc *TurnContext, input json.RawMessage) (string, error)

// Definition describes one invocable tool.
type Definition struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     Handler
}

// Registry holds the tool definitions for dispatch.
type Registry struct {
	defs   []Definition
	byName map[string]Definition
}

// NewRegistry builds a registry from the given definitions.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{byName: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		r.defs = append(r.defs, d)
		r.byName[d.Name] = d
	}
	return r
}

// Definitions returns the registered tools in registration order.
func (r *Registry) Definitions() []Definition {
	return r.defs
}

// Dispatch runs the named tool and always returns a string the agent
// can read. Expected failures (validation, not-found, persistence) are
// mapped to descriptive messages; a failed call leaves the service in
// a clean state for the next call in the same turn.
func (r *Registry) Dispatch(ctx context.Context, tc *TurnContext, name string, input json.RawMessage) string {
	d, ok := r.byName[name]
	if !ok {
		return fmt.Sprintf("unknown tool: %s", name)
	}
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}
	out, err := d.Handler(ctx, tc, input)
	if err != nil {
		return errorMessage(err)
	}
	return out
}

func errorMessage(err error) string {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, store.ErrNotFound):
		return "memory item not found"
	default:
		return "memory operation failed: " + err.Error()
	}
}
