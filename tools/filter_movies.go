package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/petasbytes/moviebot/internal/display"
	"github.com/petasbytes/moviebot/internal/movies"
)

// FilterMoviesInput fields are all optional. Pointers keep an explicit zero
// distinct from "not provided".
type FilterMoviesInput struct {
	MinRating        *float64 `json:"minRating,omitempty" jsonschema:"minimum=0,maximum=10" jsonschema_description:"Minimum average rating (0-10)."`
	MaxRating        *float64 `json:"maxRating,omitempty" jsonschema:"minimum=0,maximum=10" jsonschema_description:"Maximum average rating (0-10)."`
	MinYear          *int     `json:"minYear,omitempty" jsonschema_description:"Earliest release year."`
	MaxYear          *int     `json:"maxYear,omitempty" jsonschema_description:"Latest release year."`
	MinRevenue       *int64   `json:"minRevenue,omitempty" jsonschema_description:"Minimum box office revenue in USD."`
	MaxRevenue       *int64   `json:"maxRevenue,omitempty" jsonschema_description:"Maximum box office revenue in USD."`
	Genre            *string  `json:"genre,omitempty" jsonschema_description:"Genre, e.g. action."`
	MinRuntime       *int     `json:"minRuntime,omitempty" jsonschema_description:"Minimum runtime in minutes."`
	MaxRuntime       *int     `json:"maxRuntime,omitempty" jsonschema_description:"Maximum runtime in minutes."`
	OriginalLanguage *string  `json:"originalLanguage,omitempty" jsonschema_description:"Original language code, e.g. en."`
	SpokenLanguage   *string  `json:"spokenLanguage,omitempty" jsonschema_description:"Spoken language, e.g. English."`
	Limit            *int     `json:"limit,omitempty" jsonschema:"minimum=1" jsonschema_description:"Maximum number of results."`
}

// Criteria converts the input into the provider's filter bag.
func (in FilterMoviesInput) Criteria() movies.Criteria {
	return movies.Criteria{
		MinRating:        in.MinRating,
		MaxRating:        in.MaxRating,
		MinYear:          in.MinYear,
		MaxYear:          in.MaxYear,
		MinRevenue:       in.MinRevenue,
		MaxRevenue:       in.MaxRevenue,
		Genre:            in.Genre,
		MinRuntime:       in.MinRuntime,
		MaxRuntime:       in.MaxRuntime,
		OriginalLanguage: in.OriginalLanguage,
		SpokenLanguage:   in.SpokenLanguage,
		Limit:            in.Limit,
	}
}

var FilterMoviesDefinition = define[FilterMoviesInput](
	FilterMovies,
	"Filter movies by criteria: rating, year, revenue, runtime ranges, genre, languages and a result limit. All fields are optional.",
	FilterMoviesExec,
)

func FilterMoviesExec(ctx context.Context, env Env, input json.RawMessage) <-chan Step {
	in, err := decode[FilterMoviesInput](FilterMovies, input)
	if err != nil {
		return failed(err)
	}
	return lookup(ctx, env, FilterMovies, "Filtering movies...", func(ctx context.Context) result {
		ms, err := env.Movies.Filter(ctx, in.Criteria())
		if err != nil {
			return classify(err, "No movies found!")
		}
		return result{
			display: display.MovieList("Filtered movies", ms, true),
			summary: fmt.Sprintf("[Filtered movies: %d results]", len(ms)),
		}
	})
}
