package runner

import (
	"context"
	"encoding/json"

	"github.com/petasbytes/moviebot/memory"
	"github.com/petasbytes/moviebot/tools"
)

// Request is everything the oracle sees for one decision.
type Request struct {
	System      string
	Messages    []memory.Message
	Tools       []tools.ToolDefinition
	Temperature float64
}

// ToolCall is the oracle's selection of a tool and its raw parameter bag.
type ToolCall struct {
	ID    string
	Name  tools.Name
	Input json.RawMessage
}

// Decision is either reply text or exactly one tool call. When Tool is set,
// Text holds whatever preamble the oracle wrote before choosing it.
type Decision struct {
	Text string
	Tool *ToolCall
}

// Oracle decides, per turn, whether to reply in text or invoke a tool.
// onText receives reply text as it streams.
type Oracle interface {
	Stream(ctx context.Context, req Request, onText func(delta string)) (Decision, error)
}
