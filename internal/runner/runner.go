package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/petasbytes/moviebot/internal/display"
	"github.com/petasbytes/moviebot/internal/metrics"
	"github.com/petasbytes/moviebot/internal/telemetry"
	"github.com/petasbytes/moviebot/memory"
	"github.com/petasbytes/moviebot/tools"
)

var ErrEmptyMessage = errors.New("runner: empty message")

// Conversation is the history a turn reads and writes. *memory.Store
// implements it. Callers serialize Handle calls per conversation.
type Conversation interface {
	SessionID() string
	Append(msg memory.Message) (memory.Message, error)
	Commit(ctx context.Context, msg memory.Message) (memory.Message, error)
	Messages() []memory.Message
}

// Sink receives the turn's record every time its display changes.
type Sink func(display.Record)

type Runner struct {
	Oracle Oracle
	Tools  []tools.ToolDefinition
	Movies tools.MovieSource

	// Delay paces successful lookups before their final render.
	Delay time.Duration
	// OracleTimeout bounds a single oracle call, streaming included. Zero means unbounded.
	OracleTimeout time.Duration
	Log           zerolog.Logger
}

type Option func(*Runner)

func WithDelay(d time.Duration) Option { return func(r *Runner) { r.Delay = d } }

func WithOracleTimeout(d time.Duration) Option { return func(r *Runner) { r.OracleTimeout = d } }

func WithLogger(l zerolog.Logger) Option { return func(r *Runner) { r.Log = l } }

func New(oracle Oracle, toolDefs []tools.ToolDefinition, src tools.MovieSource, opts ...Option) *Runner {
	r := &Runner{
		Oracle: oracle,
		Tools:  toolDefs,
		Movies: src,
		Log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle runs one turn and returns its Display Record. The record's display
// is the last renderable produced. On error the record still carries the
// last renderable the sink saw.
func (r *Runner) Handle(ctx context.Context, conv Conversation, text string, sink Sink) (display.Record, error) {
	if strings.TrimSpace(text) == "" {
		return display.Record{}, ErrEmptyMessage
	}
	if sink == nil {
		sink = func(display.Record) {}
	}

	turnID, ok := telemetry.TurnIDFromContext(ctx)
	if !ok {
		turnID = uuid.NewString()
	}
	sessionID := conv.SessionID()
	ctx = telemetry.WithTurnID(ctx, turnID)
	ctx = telemetry.WithSessionID(ctx, sessionID)
	log := r.Log.With().Str("session_id", sessionID).Str("turn_id", turnID).Logger()

	start := time.Now()
	path, outcome := "text", "ok"
	prior := conv.Messages()
	contents := make([]string, 0, len(prior)+2)
	contents = append(contents, SystemPrompt)
	for _, m := range prior {
		contents = append(contents, m.Content)
	}
	contents = append(contents, text)
	telemetry.Emit(ctx, "turn_started", map[string]any{
		"history_len":     len(prior),
		"tokens_estimate": metrics.EstimateTokens(contents...),
	})
	telemetry.EmitLocalFeatures(ctx, text)
	defer func() {
		telemetry.TurnsTotal.WithLabelValues(path, outcome).Inc()
		telemetry.Emit(ctx, "turn_finished", map[string]any{
			"path":        path,
			"outcome":     outcome,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}()

	rec := display.Record{ID: uuid.NewString(), Role: display.RoleAssistant, Display: display.Loading("")}

	if _, err := conv.Append(memory.Message{Role: memory.RoleUser, Content: text}); err != nil {
		outcome = "error"
		return rec, fmt.Errorf("runner: append user message: %w", err)
	}
	sink(rec)

	req := Request{
		System:      SystemPrompt,
		Messages:    conv.Messages(),
		Tools:       r.Tools,
		Temperature: 0,
	}
	var streamed strings.Builder
	dec, err := r.decide(ctx, req, func(delta string) {
		streamed.WriteString(delta)
		rec.Display = display.Text(streamed.String())
		sink(rec)
	})
	if err != nil {
		outcome = "error"
		log.Error().Err(err).Msg("oracle call failed")
		return rec, fmt.Errorf("runner: oracle: %w", err)
	}

	if dec.Tool == nil {
		reply := dec.Text
		if reply == "" {
			reply = streamed.String()
		}
		rec.Display = display.Text(reply)
		if strings.TrimSpace(reply) == "" {
			// Nothing to remember; the user message stays pending like a failed lookup.
			outcome = "empty"
			sink(rec)
			log.Warn().Msg("oracle returned an empty reply")
			return rec, nil
		}
		if _, err := conv.Commit(ctx, memory.Message{Role: memory.RoleAssistant, Content: reply}); err != nil {
			outcome = "error"
			return rec, fmt.Errorf("runner: commit reply: %w", err)
		}
		sink(rec)
		log.Debug().Int("reply_bytes", len(reply)).Msg("text turn committed")
		return rec, nil
	}

	path = "tool"
	rec, outcome, err = r.runTool(ctx, log, conv, rec, *dec.Tool, sink)
	return rec, err
}

func (r *Runner) decide(ctx context.Context, req Request, onText func(string)) (Decision, error) {
	if r.OracleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.OracleTimeout)
		defer cancel()
	}
	return r.Oracle.Stream(ctx, req, onText)
}

// runTool validates the call, runs its executor and forwards every step.
// The executor commits its own summary.
func (r *Runner) runTool(ctx context.Context, log zerolog.Logger, conv Conversation, rec display.Record, call ToolCall, sink Sink) (display.Record, string, error) {
	name := string(call.Name)
	log = log.With().Str("tool", name).Logger()
	start := time.Now()

	emit := func(status display.ToolStatus, errStr string) {
		telemetry.ToolExecutions.WithLabelValues(name, string(status)).Inc()
		fields := map[string]any{
			"tool_name":   name,
			"duration_ms": time.Since(start).Milliseconds(),
			"input_size":  len(call.Input),
			"status":      string(status),
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		telemetry.Emit(ctx, "tool_exec", fields)
	}

	rec.Tool = &display.ToolTrace{Name: name, Params: traceParams(call.Input), Status: display.ToolRunning}

	def, ok := tools.Lookup(r.Tools, name)
	if !ok {
		rec.Tool.Status = display.ToolFailed
		emit(display.ToolFailed, "unknown tool")
		return rec, "error", fmt.Errorf("runner: %w: %q", tools.ErrUnknownTool, name)
	}
	if err := def.Validate(call.Input); err != nil {
		rec.Tool.Status = display.ToolFailed
		emit(display.ToolFailed, "invalid parameters")
		log.Error().Err(err).Msg("oracle sent invalid parameters")
		return rec, "error", fmt.Errorf("runner: %w", err)
	}

	env := tools.Env{Movies: r.Movies, History: conv, Delay: r.Delay, Log: log}
	var final tools.Step
	for step := range def.Execute(ctx, env, call.Input) {
		if step.Done {
			final = step
		}
		if step.Err != nil {
			continue
		}
		rec.Display = step.Display
		rec.Tool.Status = step.Status
		sink(rec)
	}

	if final.Err != nil {
		rec.Display = final.Display
		rec.Tool.Status = display.ToolFailed
		// Generic string; the error may carry upstream payloads.
		emit(display.ToolFailed, "tool error")
		return rec, "error", fmt.Errorf("runner: %s: %w", name, final.Err)
	}
	emit(final.Status, "")
	if final.Status == display.ToolNotFound {
		return rec, "not_found", nil
	}
	return rec, "ok", nil
}

func traceParams(input json.RawMessage) map[string]any {
	if len(input) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(input, &m); err != nil {
		return nil
	}
	return m
}
