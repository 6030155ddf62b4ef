// Package server exposes sessions over WebSocket.
//
// Protocol on /ws (one session per connection, ?session=<id> resumes a
// stored one):
//
//	server -> {"type":"session","session_id":"..."}
//	client -> {"text":"Get information about tt1375666"}
//	server -> {"type":"update","record":{...}}   zero or more
//	server -> {"type":"done","record":{...}}     or {"type":"error","error":"..."}
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/petasbytes/moviebot/internal/display"
	"github.com/petasbytes/moviebot/internal/session"
)

const writeWait = 10 * time.Second

type Frame struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	Record    *display.Record `json:"record,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type inbound struct {
	Text string `json:"text"`
}

type Server struct {
	sessions *session.Manager
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

func New(sessions *session.Manager, log zerolog.Logger) *Server {
	return &Server{
		sessions: sessions,
		log:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, err := s.sessions.Open(ctx, r.URL.Query().Get("session"))
	if err != nil {
		s.log.Error().Err(err).Msg("open session")
		_ = s.write(conn, Frame{Type: "error", Error: "could not open session"})
		return
	}
	defer s.sessions.Close(sess.ID)
	log := s.log.With().Str("session_id", sess.ID).Logger()

	if err := s.write(conn, Frame{Type: "session", SessionID: sess.ID}); err != nil {
		return
	}

	// The reader owns conn reads so a disconnect cancels a turn in flight.
	inbox := make(chan inbound)
	go func() {
		defer cancel()
		defer close(inbox)
		for {
			var in inbound
			if err := conn.ReadJSON(&in); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Debug().Err(err).Msg("websocket read")
				}
				return
			}
			select {
			case inbox <- in:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		in, ok := <-inbox
		if !ok {
			return
		}

		var writeErr error
		sink := func(rec display.Record) {
			if writeErr == nil {
				writeErr = s.write(conn, Frame{Type: "update", Record: &rec})
			}
		}
		rec, err := sess.SendMessage(ctx, in.Text, sink)
		if writeErr != nil {
			log.Debug().Err(writeErr).Msg("websocket write")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("turn failed")
			err = s.write(conn, Frame{Type: "error", Error: "Something went wrong. Please try again."})
		} else {
			err = s.write(conn, Frame{Type: "done", Record: &rec})
		}
		if err != nil {
			return
		}
	}
}

func (s *Server) write(conn *websocket.Conn, f Frame) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(f)
}
