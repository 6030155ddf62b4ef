package tools

// Registry returns all tool definitions wired for the bot.
func Registry() []ToolDefinition {
	return []ToolDefinition{MovieInfoDefinition, MovieCastDefinition, TitleSearchDefinition, FilterMoviesDefinition}
}

// Lookup finds a definition by name.
func Lookup(defs []ToolDefinition, name string) (*ToolDefinition, bool) {
	for i := range defs {
		if string(defs[i].Name) == name {
			return &defs[i], true
		}
	}
	return nil, false
}
