package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/moviebot/internal/movies"
	"github.com/petasbytes/moviebot/internal/runner"
	"github.com/petasbytes/moviebot/internal/session"
	"github.com/petasbytes/moviebot/memory"
	"github.com/petasbytes/moviebot/tools"
)

// slowOracle echoes the last user message after a pause, and records how
// many calls overlap.
type slowOracle struct {
	mu       sync.Mutex
	inFlight int
	maxSeen  int
	pause    time.Duration
}

func (o *slowOracle) Stream(ctx context.Context, req runner.Request, onText func(string)) (runner.Decision, error) {
	o.mu.Lock()
	o.inFlight++
	if o.inFlight > o.maxSeen {
		o.maxSeen = o.inFlight
	}
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.inFlight--
		o.mu.Unlock()
	}()

	select {
	case <-time.After(o.pause):
	case <-ctx.Done():
		return runner.Decision{}, ctx.Err()
	}
	last := req.Messages[len(req.Messages)-1].Content
	return runner.Decision{Text: "echo: " + last}, nil
}

type noMovies struct{}

func (noMovies) GetByID(context.Context, string) (movies.Movie, error) {
	return movies.Movie{}, movies.ErrNotFound
}

func (noMovies) SearchByTitle(context.Context, string) ([]movies.Movie, error) {
	return nil, movies.ErrNotFound
}

func (noMovies) Filter(context.Context, movies.Criteria) ([]movies.Movie, error) {
	return nil, movies.ErrNotFound
}

func newManager(o runner.Oracle, backend memory.Backend) *session.Manager {
	r := runner.New(o, tools.Registry(), noMovies{})
	return session.NewManager(r, backend, zerolog.Nop())
}

func TestSendMessage_SerializesTurns(t *testing.T) {
	o := &slowOracle{pause: 10 * time.Millisecond}
	m := newManager(o, nil)
	s, err := m.Open(context.Background(), "")
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.SendMessage(context.Background(), "hello", nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, o.maxSeen, "turns on one session never overlap")
	msgs := s.Store.Messages()
	require.Len(t, msgs, 10)
	for i := 0; i < len(msgs); i += 2 {
		assert.Equal(t, memory.RoleUser, msgs[i].Role)
		assert.Equal(t, memory.RoleAssistant, msgs[i+1].Role, "each reply directly follows its user message")
	}
}

func TestSendMessage_WaitHonoursContext(t *testing.T) {
	o := &slowOracle{pause: 200 * time.Millisecond}
	m := newManager(o, nil)
	s, err := m.Open(context.Background(), "s1")
	require.NoError(t, err)

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(started)
		_, _ = s.SendMessage(context.Background(), "first", nil)
		close(done)
	}()
	<-started
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = s.SendMessage(ctx, "second", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	<-done
	_, err = s.SendMessage(context.Background(), "third", nil)
	require.NoError(t, err, "the lock is released after a cancelled wait")
}

func TestManager_OpenReusesAndReloads(t *testing.T) {
	backend, err := memory.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	m := newManager(&slowOracle{}, backend)
	ctx := context.Background()

	s, err := m.Open(ctx, "abc")
	require.NoError(t, err)
	again, err := m.Open(ctx, "abc")
	require.NoError(t, err)
	assert.Same(t, s, again)
	assert.Equal(t, 1, m.Len())

	_, err = s.SendMessage(ctx, "hello", nil)
	require.NoError(t, err)

	m.Close("abc")
	m.Close("abc")
	assert.Zero(t, m.Len())
	_, err = s.SendMessage(ctx, "late", nil)
	assert.ErrorIs(t, err, session.ErrClosed)

	reopened, err := m.Open(ctx, "abc")
	require.NoError(t, err)
	assert.NotSame(t, s, reopened)
	assert.Equal(t, 2, reopened.Store.Len())
}

func TestManager_SharedSessionSurvivesOneClose(t *testing.T) {
	m := newManager(&slowOracle{}, nil)
	ctx := context.Background()

	first, err := m.Open(ctx, "shared")
	require.NoError(t, err)
	second, err := m.Open(ctx, "shared")
	require.NoError(t, err)
	require.Same(t, first, second)

	m.Close("shared")
	assert.Equal(t, 1, m.Len())
	_, err = second.SendMessage(ctx, "still here", nil)
	require.NoError(t, err)

	m.Close("shared")
	assert.Zero(t, m.Len())
	_, err = second.SendMessage(ctx, "gone", nil)
	assert.ErrorIs(t, err, session.ErrClosed)

	// Extra Close calls are harmless.
	m.Close("shared")
	assert.Zero(t, m.Len())
}
