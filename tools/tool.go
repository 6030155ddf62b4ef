package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/petasbytes/moviebot/internal/display"
	"github.com/petasbytes/moviebot/internal/movies"
	"github.com/petasbytes/moviebot/memory"
)

// Name is a registered tool name.
type Name string

const (
	MovieInfo    Name = "get_movie_info"
	MovieCast    Name = "get_movie_cast"
	TitleSearch  Name = "search_movies_by_title"
	FilterMovies Name = "filter_movies"
)

// Names lists every tool, in registry order.
var Names = []Name{MovieInfo, MovieCast, TitleSearch, FilterMovies}

// Valid reports whether n is one of the registered tools.
func (n Name) Valid() bool {
	for _, known := range Names {
		if n == known {
			return true
		}
	}
	return false
}

var (
	ErrUnknownTool   = errors.New("tools: unknown tool")
	ErrInvalidParams = errors.New("tools: invalid parameters")
)

// MovieSource is the slice of the metadata provider the executors need.
type MovieSource interface {
	GetByID(ctx context.Context, imdbID string) (movies.Movie, error)
	SearchByTitle(ctx context.Context, title string) ([]movies.Movie, error)
	Filter(ctx context.Context, crit movies.Criteria) ([]movies.Movie, error)
}

// Committer closes a turn with a summary message.
type Committer interface {
	Commit(ctx context.Context, msg memory.Message) (memory.Message, error)
}

// Env is what an executor runs against.
type Env struct {
	Movies  MovieSource
	History Committer
	// Delay paces the final render after a successful fetch. It is not a rate limit.
	Delay time.Duration
	Log   zerolog.Logger
}

// Step is one value produced by an executor. Err is only set on the done
// step and means the turn failed (transport error, cancellation, panic).
type Step struct {
	Done    bool
	Display display.Display
	Status  display.ToolStatus
	Err     error
}

// Executor runs a validated parameter bag. The channel yields exactly one
// in-progress step, then one done step, then closes.
type Executor func(ctx context.Context, env Env, input json.RawMessage) <-chan Step

type ToolDefinition struct {
	Name        Name
	Description string
	InputSchema anthropic.ToolInputSchemaParam
	// Schema is the full JSON Schema the parameter bag is validated against.
	Schema  []byte
	Execute Executor

	validator *gojsonschema.Schema
}

// Validate checks a parameter bag against the tool's schema.
func (d ToolDefinition) Validate(input json.RawMessage) error {
	if len(input) == 0 {
		input = json.RawMessage(`{}`)
	}
	if !json.Valid(input) {
		return fmt.Errorf("%w: %s: not valid JSON", ErrInvalidParams, d.Name)
	}
	res, err := d.validator.Validate(gojsonschema.NewBytesLoader(input))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidParams, d.Name, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s: %s", ErrInvalidParams, d.Name, strings.Join(msgs, "; "))
	}
	return nil
}

// reflectSchema derives an inline JSON Schema for T.
func reflectSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	s := reflector.Reflect(v)
	// gojsonschema predates draft 2020-12; the keywords used here are draft-07 compatible.
	s.Version = ""
	return s
}

// GenerateSchema derives the Anthropic tool input schema for T. The model
// sees the same required list and closed object that Validate enforces.
func GenerateSchema[T any]() anthropic.ToolInputSchemaParam {
	s := reflectSchema[T]()
	return anthropic.ToolInputSchemaParam{
		Properties:  s.Properties,
		Required:    s.Required,
		ExtraFields: map[string]any{"additionalProperties": false},
	}
}

func define[T any](name Name, description string, exec Executor) ToolDefinition {
	raw, err := json.Marshal(reflectSchema[T]())
	if err != nil {
		panic(fmt.Sprintf("tools: marshal schema for %s: %v", name, err))
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("tools: compile schema for %s: %v", name, err))
	}
	return ToolDefinition{
		Name:        name,
		Description: description,
		InputSchema: GenerateSchema[T](),
		Schema:      raw,
		Execute:     exec,
		validator:   compiled,
	}
}
