package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/petasbytes/moviebot/internal/display"
)

type TitleSearchInput struct {
	Title string `json:"title" jsonschema:"minLength=1" jsonschema_description:"Full or partial movie title to search for."`
}

var TitleSearchDefinition = define[TitleSearchInput](
	TitleSearch,
	"Search movies whose title contains the given text.",
	TitleSearchExec,
)

func TitleSearchExec(ctx context.Context, env Env, input json.RawMessage) <-chan Step {
	in, err := decode[TitleSearchInput](TitleSearch, input)
	if err != nil {
		return failed(err)
	}
	return lookup(ctx, env, TitleSearch, "Searching movies...", func(ctx context.Context) result {
		ms, err := env.Movies.SearchByTitle(ctx, in.Title)
		if err != nil {
			return classify(err, "No movies found!")
		}
		return result{
			display: display.MovieList(fmt.Sprintf("Movies matching %q", in.Title), ms, false),
			summary: fmt.Sprintf("[Search results for %q]", in.Title),
		}
	})
}
