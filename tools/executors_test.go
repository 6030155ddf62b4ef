package tools_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/moviebot/internal/display"
	"github.com/petasbytes/moviebot/internal/movies"
	"github.com/petasbytes/moviebot/memory"
	"github.com/petasbytes/moviebot/tools"
)

func TestMovieInfo_Success(t *testing.T) {
	src := &fakeSource{movie: inception}
	env, store := newEnv(src)

	steps := drain(t, tools.MovieInfoExec(context.Background(), env, json.RawMessage(`{"imdbId":"tt1375666"}`)))

	require.Len(t, steps, 2)
	assert.False(t, steps[0].Done)
	assert.Equal(t, display.Loading("Loading movie information..."), steps[0].Display)
	assert.Equal(t, display.ToolRunning, steps[0].Status)

	final := steps[1]
	assert.True(t, final.Done)
	require.NoError(t, final.Err)
	assert.Equal(t, display.ToolDone, final.Status)
	assert.Equal(t, display.KindMovieInfo, final.Display.Kind)
	require.NotNil(t, final.Display.Movie)
	assert.Equal(t, "Inception", final.Display.Movie.Title)
	assert.Equal(t, "2010-07-16", final.Display.Movie.ReleaseDate)
	assert.Equal(t, 8.4, final.Display.Movie.VoteAverage)
	assert.NotEmpty(t, final.Display.Movie.Overview)

	assert.Equal(t, "tt1375666", src.gotID)
	msgs := store.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, memory.RoleAssistant, msgs[0].Role)
	assert.Equal(t, "[Information about Inception]", msgs[0].Content)
	assert.Equal(t, "get_movie_info", msgs[0].Name)
}

func TestMovieCast_SplitsActors(t *testing.T) {
	env, store := newEnv(&fakeSource{movie: inception})

	steps := drain(t, tools.MovieCastExec(context.Background(), env, json.RawMessage(`{"imdbId":"tt1375666"}`)))

	require.Len(t, steps, 2)
	assert.Equal(t, "Loading cast...", steps[0].Display.Text)
	final := steps[1].Display
	assert.Equal(t, display.KindMovieCast, final.Kind)
	assert.Equal(t, []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt"}, final.Cast)
	assert.Equal(t, "[Cast of Inception]", store.Messages()[0].Content)
}

func TestTitleSearch_ProviderErrorIsNotFound(t *testing.T) {
	src := &fakeSource{err: &movies.StatusError{Op: "search", StatusCode: http.StatusInternalServerError}}
	env, store := newEnv(src)

	steps := drain(t, tools.TitleSearchExec(context.Background(), env, json.RawMessage(`{"title":"Inception"}`)))

	require.Len(t, steps, 2)
	final := steps[1]
	assert.True(t, final.Done)
	assert.NoError(t, final.Err)
	assert.Equal(t, display.ToolNotFound, final.Status)
	assert.Equal(t, display.NotFound("No movies found!"), final.Display)
	assert.Equal(t, "Inception", src.gotTitle)
	assert.Zero(t, store.Len(), "a failed lookup commits nothing")
}

func TestTitleSearch_Success(t *testing.T) {
	env, store := newEnv(&fakeSource{list: []movies.Movie{inception, {IMDbID: "tt0000001", Title: "Inception: The Cobol Job"}}})

	steps := drain(t, tools.TitleSearchExec(context.Background(), env, json.RawMessage(`{"title":"Inception"}`)))

	final := steps[len(steps)-1].Display
	assert.Equal(t, display.KindMovieList, final.Kind)
	assert.Equal(t, `Movies matching "Inception"`, final.Heading)
	assert.Len(t, final.Movies, 2)
	assert.False(t, final.ShowYear)
	assert.Equal(t, `[Search results for "Inception"]`, store.Messages()[0].Content)
}

func TestFilterMovies_PassesOnlyProvidedCriteria(t *testing.T) {
	src := &fakeSource{list: []movies.Movie{inception}}
	env, store := newEnv(src)

	steps := drain(t, tools.FilterMoviesExec(context.Background(), env,
		json.RawMessage(`{"genre":"action","minYear":2010,"minRating":7}`)))

	require.Len(t, steps, 2)
	assert.Equal(t, "Filtering movies...", steps[0].Display.Text)
	got := src.gotCriteria.Values()
	assert.Equal(t, "action", got.Get("genre"))
	assert.Equal(t, "2010", got.Get("min_year"))
	assert.Equal(t, "7", got.Get("min_rating"))
	assert.Len(t, got, 3)

	final := steps[1].Display
	assert.Equal(t, "Filtered movies", final.Heading)
	assert.True(t, final.ShowYear)
	assert.Equal(t, "[Filtered movies: 1 results]", store.Messages()[0].Content)
}

func TestFilterMovies_EmptyResultIsNotFound(t *testing.T) {
	env, store := newEnv(&fakeSource{err: movies.ErrNotFound})

	steps := drain(t, tools.FilterMoviesExec(context.Background(), env, json.RawMessage(`{}`)))

	assert.Equal(t, display.NotFound("No movies found!"), steps[len(steps)-1].Display)
	assert.Zero(t, store.Len())
}

func TestExecutor_IsDeterministic(t *testing.T) {
	run := func() (display.Display, string) {
		env, store := newEnv(&fakeSource{movie: inception})
		steps := drain(t, tools.MovieInfoExec(context.Background(), env, json.RawMessage(`{"imdbId":"tt1375666"}`)))
		return steps[len(steps)-1].Display, store.Messages()[0].Content
	}
	d1, s1 := run()
	d2, s2 := run()
	assert.Equal(t, d1, d2)
	assert.Equal(t, s1, s2)
}

func TestExecutor_TransportErrorFailsTurn(t *testing.T) {
	env, store := newEnv(&fakeSource{err: errBoom})

	steps := drain(t, tools.MovieInfoExec(context.Background(), env, json.RawMessage(`{"imdbId":"tt1375666"}`)))

	final := steps[len(steps)-1]
	assert.True(t, final.Done)
	assert.ErrorIs(t, final.Err, errBoom)
	assert.Equal(t, display.ToolFailed, final.Status)
	assert.Zero(t, store.Len())
}

func TestExecutor_CancelledDuringPacingCommitsNothing(t *testing.T) {
	env, store := newEnv(&fakeSource{movie: inception})
	env.Delay = time.Hour
	ctx, cancel := context.WithCancel(context.Background())

	ch := tools.MovieInfoExec(ctx, env, json.RawMessage(`{"imdbId":"tt1375666"}`))
	first := <-ch
	assert.False(t, first.Done)
	cancel()
	rest := drain(t, ch)

	require.Len(t, rest, 1)
	assert.ErrorIs(t, rest[0].Err, context.Canceled)
	assert.Zero(t, store.Len())
}

func TestExecutor_PanicIsRecovered(t *testing.T) {
	env, store := newEnv(&fakeSource{panicMsg: "nil map"})

	steps := drain(t, tools.MovieCastExec(context.Background(), env, json.RawMessage(`{"imdbId":"tt1375666"}`)))

	require.Len(t, steps, 2)
	assert.Error(t, steps[1].Err)
	assert.Contains(t, steps[1].Err.Error(), "panicked")
	assert.Zero(t, store.Len())
}

func TestExecutor_UndecodableInput(t *testing.T) {
	src := &fakeSource{movie: inception}
	env, _ := newEnv(src)

	steps := drain(t, tools.MovieInfoExec(context.Background(), env, json.RawMessage(`{"imdbId":42}`)))

	require.Len(t, steps, 1)
	assert.True(t, steps[0].Done)
	assert.ErrorIs(t, steps[0].Err, tools.ErrInvalidParams)
	assert.Zero(t, src.calls)
}
