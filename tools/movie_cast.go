package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/petasbytes/moviebot/internal/display"
)

type MovieCastInput struct {
	IMDbID string `json:"imdbId" jsonschema:"pattern=^tt[0-9]+$" jsonschema_description:"IMDb identifier of the movie, e.g. tt1375666."`
}

var MovieCastDefinition = define[MovieCastInput](
	MovieCast,
	"Get the cast of a movie by its IMDb identifier.",
	MovieCastExec,
)

func MovieCastExec(ctx context.Context, env Env, input json.RawMessage) <-chan Step {
	in, err := decode[MovieCastInput](MovieCast, input)
	if err != nil {
		return failed(err)
	}
	return lookup(ctx, env, MovieCast, "Loading cast...", func(ctx context.Context) result {
		m, err := env.Movies.GetByID(ctx, in.IMDbID)
		if err != nil {
			return classify(err, "Movie not found!")
		}
		return result{
			display: display.MovieCast(m),
			summary: fmt.Sprintf("[Cast of %s]", m.Title),
		}
	})
}
