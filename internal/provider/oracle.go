package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/petasbytes/moviebot/internal/runner"
	"github.com/petasbytes/moviebot/memory"
	"github.com/petasbytes/moviebot/tools"
)

// AnthropicOracle answers runner requests with the Messages streaming API.
type AnthropicOracle struct {
	Client    *anthropic.Client
	Model     anthropic.Model
	MaxTokens int64
}

func NewAnthropicOracle(client *anthropic.Client, model string, maxTokens int64) *AnthropicOracle {
	if model == "" {
		model = string(DefaultModel)
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &AnthropicOracle{Client: client, Model: anthropic.Model(model), MaxTokens: maxTokens}
}

// Stream sends one request and reads the reply. Text blocks are forwarded to
// onText as they arrive. The first tool_use block decides the turn; later
// ones are ignored.
func (o *AnthropicOracle) Stream(ctx context.Context, req runner.Request, onText func(string)) (runner.Decision, error) {
	params := anthropic.MessageNewParams{
		Model:       o.Model,
		MaxTokens:   o.MaxTokens,
		System:      []anthropic.TextBlockParam{{Text: req.System}},
		Messages:    messageParams(req.Messages),
		Tools:       toolParams(req.Tools),
		Temperature: anthropic.Float(req.Temperature),
	}

	stream := o.Client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	var (
		text    strings.Builder
		call    *runner.ToolCall
		input   strings.Builder
		inTool  bool
		toolIdx int64 = -1
	)
	for stream.Next() {
		switch ev := stream.Current().AsAny().(type) {
		case anthropic.ContentBlockStartEvent:
			if ev.ContentBlock.Type != "tool_use" || call != nil {
				continue
			}
			call = &runner.ToolCall{ID: ev.ContentBlock.ID, Name: tools.Name(ev.ContentBlock.Name)}
			toolIdx = ev.Index
			inTool = true
		case anthropic.ContentBlockDeltaEvent:
			switch d := ev.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				text.WriteString(d.Text)
				if call == nil && onText != nil {
					onText(d.Text)
				}
			case anthropic.InputJSONDelta:
				if inTool && ev.Index == toolIdx {
					input.WriteString(d.PartialJSON)
				}
			}
		case anthropic.ContentBlockStopEvent:
			if inTool && ev.Index == toolIdx {
				inTool = false
			}
		}
	}
	if err := stream.Err(); err != nil {
		return runner.Decision{}, fmt.Errorf("provider: stream: %w", err)
	}

	if call == nil {
		return runner.Decision{Text: text.String()}, nil
	}
	if !call.Name.Valid() {
		return runner.Decision{}, fmt.Errorf("provider: %w: %q", tools.ErrUnknownTool, call.Name)
	}
	raw := strings.TrimSpace(input.String())
	if raw == "" {
		raw = "{}"
	}
	call.Input = json.RawMessage(raw)
	return runner.Decision{Text: text.String(), Tool: call}, nil
}

// messageParams converts history to API messages. Consecutive entries with
// the same role (a user message left without a reply by a failed lookup)
// are merged into one message with several text blocks. Blank entries are
// dropped; the API rejects empty text blocks.
func messageParams(msgs []memory.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		block := anthropic.NewTextBlock(m.Content)
		role := anthropic.MessageParamRoleUser
		if m.Role == memory.RoleAssistant {
			role = anthropic.MessageParamRoleAssistant
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Content = append(out[n-1].Content, block)
			continue
		}
		if role == anthropic.MessageParamRoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(block))
		} else {
			out = append(out, anthropic.NewUserMessage(block))
		}
	}
	return out
}

func toolParams(defs []tools.ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, t := range defs {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        string(t.Name),
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}
