package tools_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/moviebot/internal/movies"
	"github.com/petasbytes/moviebot/memory"
	"github.com/petasbytes/moviebot/tools"
)

var inception = movies.Movie{
	IMDbID:      "tt1375666",
	Title:       "Inception",
	Overview:    "A thief who steals corporate secrets through dream-sharing technology.",
	ReleaseDate: "2010-07-16",
	VoteAverage: 8.4,
	Actors:      "Leonardo DiCaprio, Joseph Gordon-Levitt",
	Year:        2010,
}

// fakeSource answers from fixed values and records what it was asked.
type fakeSource struct {
	movie    movies.Movie
	list     []movies.Movie
	err      error
	panicMsg string

	gotID       string
	gotTitle    string
	gotCriteria movies.Criteria
	calls       int
}

func (f *fakeSource) GetByID(_ context.Context, id string) (movies.Movie, error) {
	f.calls++
	f.gotID = id
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.movie, f.err
}

func (f *fakeSource) SearchByTitle(_ context.Context, title string) ([]movies.Movie, error) {
	f.calls++
	f.gotTitle = title
	return f.list, f.err
}

func (f *fakeSource) Filter(_ context.Context, crit movies.Criteria) ([]movies.Movie, error) {
	f.calls++
	f.gotCriteria = crit
	return f.list, f.err
}

var errBoom = errors.New("connection reset")

func newEnv(src tools.MovieSource) (tools.Env, *memory.Store) {
	store := memory.NewStore("test", nil)
	return tools.Env{Movies: src, History: store, Log: zerolog.Nop()}, store
}

func drain(t *testing.T, ch <-chan tools.Step) []tools.Step {
	t.Helper()
	var steps []tools.Step
	timeout := time.After(5 * time.Second)
	for {
		select {
		case s, ok := <-ch:
			if !ok {
				return steps
			}
			steps = append(steps, s)
		case <-timeout:
			require.FailNow(t, "executor did not finish")
		}
	}
}
