// Package tools defines the fixed movie toolset the model can invoke.
//
// Includes:
//   - Name: the closed enum of tool names shared by the registry, the schema
//     validators and the oracle's decision.
//   - ToolDefinition: name, description, JSON input schema, executor.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Executors: get_movie_info, get_movie_cast, search_movies_by_title,
//     filter_movies. Each yields one in-progress Step, then one done Step,
//     and commits its own history summary on success.
package tools
