// Package display defines what the caller sees for a turn: renderables and
// the Display Record that carries the latest one.
package display

import (
	"github.com/petasbytes/moviebot/internal/movies"
)

// Kind tags a Display.
type Kind string

const (
	KindLoading   Kind = "loading"
	KindText      Kind = "text"
	KindMovieInfo Kind = "movie_info"
	KindMovieCast Kind = "movie_cast"
	KindMovieList Kind = "movie_list"
	KindNotFound  Kind = "not_found"
	KindError     Kind = "error"
)

// Display is a renderable UI fragment. Which fields are set depends on Kind:
//
//	loading, text, not_found, error: Text
//	movie_info:                      Movie
//	movie_cast:                      Movie (title), Cast
//	movie_list:                      Heading, Movies, ShowYear
type Display struct {
	Kind     Kind           `json:"kind"`
	Text     string         `json:"text,omitempty"`
	Heading  string         `json:"heading,omitempty"`
	Movie    *movies.Movie  `json:"movie,omitempty"`
	Cast     []string       `json:"cast,omitempty"`
	Movies   []movies.Movie `json:"movies,omitempty"`
	ShowYear bool           `json:"show_year,omitempty"`
}

func Loading(text string) Display  { return Display{Kind: KindLoading, Text: text} }
func Text(text string) Display     { return Display{Kind: KindText, Text: text} }
func NotFound(text string) Display { return Display{Kind: KindNotFound, Text: text} }
func Error(text string) Display    { return Display{Kind: KindError, Text: text} }

func MovieInfo(m movies.Movie) Display {
	return Display{Kind: KindMovieInfo, Movie: &m}
}

func MovieCast(m movies.Movie) Display {
	return Display{Kind: KindMovieCast, Movie: &m, Cast: m.Cast()}
}

func MovieList(heading string, ms []movies.Movie, showYear bool) Display {
	return Display{Kind: KindMovieList, Heading: heading, Movies: ms, ShowYear: showYear}
}

// Role of a Display Record. System turns are never displayed.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolStatus is the execution status of a tool invocation.
type ToolStatus string

const (
	ToolRunning  ToolStatus = "running"
	ToolDone     ToolStatus = "done"
	ToolNotFound ToolStatus = "not_found"
	ToolFailed   ToolStatus = "failed"
)

// ToolTrace records which tool produced a record and with what parameters.
type ToolTrace struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
	Status ToolStatus     `json:"status"`
}

// Record is the caller-facing representation of one turn.
type Record struct {
	ID      string     `json:"id"`
	Role    Role       `json:"role"`
	Display Display    `json:"display"`
	Tool    *ToolTrace `json:"tool,omitempty"`
}
