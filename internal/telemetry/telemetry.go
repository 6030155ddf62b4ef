// Package telemetry records what happens during a turn.
//
// Two sinks:
//   - JSONL events in <artifacts>/events.jsonl, gated by MOVIEBOT_OBSERVE_JSON=1.
//   - Prometheus collectors registered on the default registry (see prometheus.go).
//
// Every event line carries app, event and time, plus the session_id and
// turn_id found on the context. Events never carry raw tool parameters or
// provider payloads, only sizes, names and outcomes.
package telemetry

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	appName    = "moviebot"
	eventsFile = "events.jsonl"
)

var (
	// writeMu keeps lines from concurrent sessions whole.
	writeMu sync.Mutex
	errLog  = zerolog.New(os.Stderr).With().Timestamp().Str("component", "telemetry").Logger()
)

// Emit appends one event to <artifacts>/events.jsonl when observation is on.
// Session and turn IDs come from ctx unless fields already set them; fields
// is never modified.
func Emit(ctx context.Context, name string, fields map[string]any) {
	if !ObserveEnabled() {
		return
	}

	m := make(map[string]any, len(fields)+5)
	if id, ok := SessionIDFromContext(ctx); ok {
		m["session_id"] = id
	}
	if id, ok := TurnIDFromContext(ctx); ok {
		m["turn_id"] = id
	}
	for k, v := range fields {
		m[k] = v
	}
	m["app"] = appName
	m["event"] = name
	m["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	b, err := json.Marshal(m)
	if err != nil {
		errLog.Warn().Err(err).Str("event", name).Msg("marshal event")
		return
	}
	if err := appendLine(b); err != nil {
		errLog.Warn().Err(err).Str("event", name).Msg("write event")
	}
}

func appendLine(b []byte) error {
	writeMu.Lock()
	defer writeMu.Unlock()

	dir := ArtifactsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(dir, eventsFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(b, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
