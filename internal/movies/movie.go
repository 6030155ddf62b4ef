// Package movies is a small client for the movie metadata provider.
//
// The provider exposes three lookups, each answering with a JSON array of
// movie records:
//
//	GET /movies/{imdbId}          single record (array of one)
//	GET /movies/search?title=...  records whose title contains the query
//	GET /movies/filter?...        records matching the criteria
//
// Known upstream inconsistency: filter records carry their identifier as
// "id" while lookup and search records use "imdb_id". Both are normalized
// into Movie.IMDbID here; everything above this package sees one shape.
package movies

import "strings"

// Movie is the normalized movie record.
type Movie struct {
	IMDbID      string  `json:"imdb_id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
	Actors      string  `json:"actors,omitempty"`
	Year        int     `json:"year,omitempty"`
}

// Cast splits the provider's comma-delimited actor string into names.
// Blank entries are dropped.
func (m Movie) Cast() []string {
	if strings.TrimSpace(m.Actors) == "" {
		return nil
	}
	parts := strings.Split(m.Actors, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := strings.TrimSpace(p); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// record is the wire shape of lookup and search results.
type record struct {
	IMDbID      string  `json:"imdb_id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Actors      string  `json:"actors"`
	Year        int     `json:"year"`
}

func (r record) movie() Movie {
	return Movie(r)
}

// filterRecord is the wire shape of filter results (id instead of imdb_id).
type filterRecord struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	Actors      string  `json:"actors"`
	Year        int     `json:"year"`
}

func (r filterRecord) movie() Movie {
	return Movie{
		IMDbID:      r.ID,
		Title:       r.Title,
		Overview:    r.Overview,
		ReleaseDate: r.ReleaseDate,
		VoteAverage: r.VoteAverage,
		Actors:      r.Actors,
		Year:        r.Year,
	}
}
