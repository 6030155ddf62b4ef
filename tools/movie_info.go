package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/petasbytes/moviebot/internal/display"
)

type MovieInfoInput struct {
	IMDbID string `json:"imdbId" jsonschema:"pattern=^tt[0-9]+$" jsonschema_description:"IMDb identifier of the movie, e.g. tt1375666."`
}

var MovieInfoDefinition = define[MovieInfoInput](
	MovieInfo,
	"Get information about a movie (title, overview, release date, rating) by its IMDb identifier.",
	MovieInfoExec,
)

func MovieInfoExec(ctx context.Context, env Env, input json.RawMessage) <-chan Step {
	in, err := decode[MovieInfoInput](MovieInfo, input)
	if err != nil {
		return failed(err)
	}
	return lookup(ctx, env, MovieInfo, "Loading movie information...", func(ctx context.Context) result {
		m, err := env.Movies.GetByID(ctx, in.IMDbID)
		if err != nil {
			return classify(err, "Movie not found!")
		}
		return result{
			display: display.MovieInfo(m),
			summary: fmt.Sprintf("[Information about %s]", m.Title),
		}
	})
}
