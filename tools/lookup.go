package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/petasbytes/moviebot/internal/display"
	"github.com/petasbytes/moviebot/internal/movies"
	"github.com/petasbytes/moviebot/memory"
)

// result is what a fetch hands back to the harness.
type result struct {
	display display.Display
	summary string // committed on success; empty means nothing to commit
	status  display.ToolStatus
	err     error
}

// lookup is the common executor shape: emit the loading render, fetch,
// pace, commit the summary, emit the final render. Both steps are buffered
// so a caller that stops reading never blocks the producer.
func lookup(ctx context.Context, env Env, name Name, loading string, fetch func(context.Context) result) <-chan Step {
	ch := make(chan Step, 2)
	go func() {
		defer close(ch)
		ch <- Step{Display: display.Loading(loading), Status: display.ToolRunning}

		var final Step
		var wg conc.WaitGroup
		wg.Go(func() {
			final = finish(ctx, env, name, fetch(ctx))
		})
		if r := wg.WaitAndRecover(); r != nil {
			final = Step{
				Display: display.Error("Something went wrong."),
				Status:  display.ToolFailed,
				Err:     fmt.Errorf("tools: %s panicked: %w", name, r.AsError()),
			}
		}
		final.Done = true
		ch <- final
	}()
	return ch
}

func finish(ctx context.Context, env Env, name Name, res result) Step {
	log := env.Log.With().Str("tool", string(name)).Logger()
	if res.err != nil {
		log.Error().Err(res.err).Msg("lookup failed")
		return Step{Display: display.Error("Something went wrong."), Status: display.ToolFailed, Err: res.err}
	}
	if res.status == display.ToolNotFound {
		log.Info().Msg("lookup returned nothing")
		return Step{Display: res.display, Status: res.status}
	}

	if err := pace(ctx, env.Delay); err != nil {
		return Step{Display: display.Error("Cancelled."), Status: display.ToolFailed, Err: err}
	}
	if _, err := env.History.Commit(ctx, memory.Message{
		Role:    memory.RoleAssistant,
		Content: res.summary,
		Name:    string(name),
	}); err != nil {
		return Step{Display: res.display, Status: display.ToolFailed, Err: err}
	}
	log.Debug().Str("summary", res.summary).Msg("lookup committed")
	return Step{Display: res.display, Status: display.ToolDone}
}

func pace(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// classify turns a provider error into a not-found render or a turn failure.
// Non-success statuses and empty result sets are "not found"; anything else
// (transport errors, timeouts, bad payloads) fails the turn.
func classify(err error, notFound string) result {
	var se *movies.StatusError
	if errors.Is(err, movies.ErrNotFound) || errors.As(err, &se) {
		return result{display: display.NotFound(notFound), status: display.ToolNotFound}
	}
	return result{err: err}
}

func decode[T any](name Name, input json.RawMessage) (T, error) {
	var in T
	if len(input) == 0 {
		input = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(input, &in); err != nil {
		return in, fmt.Errorf("%w: %s: %v", ErrInvalidParams, name, err)
	}
	return in, nil
}

// failed returns a closed channel holding a single failed done step.
func failed(err error) <-chan Step {
	ch := make(chan Step, 1)
	ch <- Step{Done: true, Display: display.Error("Something went wrong."), Status: display.ToolFailed, Err: err}
	close(ch)
	return ch
}
