// Package render draws renderables in a terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/petasbytes/moviebot/internal/display"
	"github.com/petasbytes/moviebot/internal/movies"
)

type Styles struct {
	Speaker  lipgloss.Style
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Loading  lipgloss.Style
	NotFound lipgloss.Style
	Error    lipgloss.Style
	Card     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Speaker:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Title:    lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Loading:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8")),
		NotFound: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1),
	}
}

type Renderer struct {
	Styles Styles
}

func New() *Renderer { return &Renderer{Styles: DefaultStyles()} }

// Render draws one renderable.
func (r *Renderer) Render(d display.Display) string {
	s := r.Styles
	switch d.Kind {
	case display.KindLoading:
		text := d.Text
		if text == "" {
			text = "..."
		}
		return s.Loading.Render(text)
	case display.KindText:
		return d.Text
	case display.KindNotFound:
		return s.NotFound.Render(d.Text)
	case display.KindError:
		return s.Error.Render(d.Text)
	case display.KindMovieInfo:
		return s.Card.Render(r.movieInfo(d.Movie))
	case display.KindMovieCast:
		title := ""
		if d.Movie != nil {
			title = d.Movie.Title
		}
		return s.Card.Render(s.Title.Render("Cast of "+title) + "\n" + strings.Join(d.Cast, ", "))
	case display.KindMovieList:
		return s.Card.Render(r.movieList(d))
	default:
		return s.Error.Render(fmt.Sprintf("unsupported display %q", d.Kind))
	}
}

// Record draws a record with its speaker label.
func (r *Renderer) Record(rec display.Record) string {
	label := "Bot"
	if rec.Role == display.RoleUser {
		label = "You"
	}
	return r.Styles.Speaker.Render(label+":") + " " + r.Render(rec.Display)
}

func (r *Renderer) movieInfo(m *movies.Movie) string {
	if m == nil {
		return ""
	}
	s := r.Styles
	lines := []string{s.Title.Render(m.Title)}
	if m.Overview != "" {
		lines = append(lines, lipgloss.NewStyle().Width(72).Render(m.Overview))
	}
	lines = append(lines, s.Muted.Render(fmt.Sprintf("Released %s  Rating %.1f/10", orDash(m.ReleaseDate), m.VoteAverage)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) movieList(d display.Display) string {
	s := r.Styles
	lines := []string{s.Title.Render(d.Heading)}
	for _, m := range d.Movies {
		row := "• " + m.Title
		if d.ShowYear && m.Year > 0 {
			row += s.Muted.Render(fmt.Sprintf(" (%d)", m.Year))
		}
		lines = append(lines, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
