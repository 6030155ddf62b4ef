package movies_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/moviebot/internal/movies"
)

type seen struct {
	path   string
	query  url.Values
	apiKey string
}

func newServer(t *testing.T, status int, body string) (*movies.Client, *seen) {
	t.Helper()
	got := &seen{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.query = r.URL.Query()
		got.apiKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c, err := movies.NewClient(movies.Config{BaseURL: srv.URL + "/", APIKey: "secret"})
	require.NoError(t, err)
	return c, got
}

func TestGetByID(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `[{
		"imdb_id":"tt1375666","title":"Inception","overview":"Dreams.",
		"release_date":"2010-07-16","vote_average":8.4,
		"actors":"Leonardo DiCaprio, Joseph Gordon-Levitt"}]`)

	m, err := c.GetByID(context.Background(), "tt1375666")
	require.NoError(t, err)

	assert.Equal(t, "/movies/tt1375666", got.path)
	assert.Equal(t, "secret", got.apiKey)
	assert.Equal(t, "tt1375666", m.IMDbID)
	assert.Equal(t, "Inception", m.Title)
	assert.Equal(t, 8.4, m.VoteAverage)
	assert.Equal(t, []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt"}, m.Cast())
}

func TestGetByID_EmptyArrayIsNotFound(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `[]`)

	_, err := c.GetByID(context.Background(), "tt0000000")
	assert.ErrorIs(t, err, movies.ErrNotFound)
}

func TestSearchByTitle_StatusError(t *testing.T) {
	c, got := newServer(t, http.StatusInternalServerError, `{"error":{"message":"index unavailable"}}`)

	_, err := c.SearchByTitle(context.Background(), "Inception")
	require.Error(t, err)

	var se *movies.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Equal(t, "search", se.Op)
	assert.Equal(t, "index unavailable", se.Message)
	assert.Equal(t, "/movies/search", got.path)
	assert.Equal(t, "Inception", got.query.Get("title"))
}

func TestStatusError_PlainBody(t *testing.T) {
	c, _ := newServer(t, http.StatusNotFound, "no such movie\n")

	_, err := c.GetByID(context.Background(), "tt1")
	var se *movies.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "no such movie", se.Message)
	assert.Contains(t, se.Error(), "status 404")
}

func TestFilter_QueryHasOnlyProvidedFields(t *testing.T) {
	c, got := newServer(t, http.StatusOK, `[
		{"id":"tt1375666","title":"Inception","year":2010},
		{"id":"tt0816692","title":"Interstellar","year":2014}]`)

	genre := "action"
	year := 2010
	rating := 7.0
	ms, err := c.Filter(context.Background(), movies.Criteria{Genre: &genre, MinYear: &year, MinRating: &rating})
	require.NoError(t, err)

	assert.Equal(t, "/movies/filter", got.path)
	assert.Equal(t, url.Values{
		"genre":      {"action"},
		"min_year":   {"2010"},
		"min_rating": {"7"},
	}, got.query)

	require.Len(t, ms, 2)
	assert.Equal(t, "tt1375666", ms[0].IMDbID, "filter ids are normalized")
	assert.Equal(t, 2014, ms[1].Year)
}

func TestDecodeError(t *testing.T) {
	c, _ := newServer(t, http.StatusOK, `{"not":"an array"}`)

	_, err := c.SearchByTitle(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, movies.ErrNotFound)
	var se *movies.StatusError
	assert.False(t, errors.As(err, &se), "decode failures are not status errors")
}

func TestTimeoutBoundsCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	c, err := movies.NewClient(movies.Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.GetByID(context.Background(), "tt1375666")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := movies.NewClient(movies.Config{})
	assert.Error(t, err)
}
