package movies

import (
	"net/url"
	"strconv"
)

// Criteria is the filter bag. Nil fields are left out of the query.
type Criteria struct {
	MinRating        *float64
	MaxRating        *float64
	MinYear          *int
	MaxYear          *int
	MinRevenue       *int64
	MaxRevenue       *int64
	Genre            *string
	MinRuntime       *int
	MaxRuntime       *int
	OriginalLanguage *string
	SpokenLanguage   *string
	Limit            *int
}

// Values serializes the provided fields as query parameters.
func (c Criteria) Values() url.Values {
	v := url.Values{}
	setFloat(v, "min_rating", c.MinRating)
	setFloat(v, "max_rating", c.MaxRating)
	setInt(v, "min_year", c.MinYear)
	setInt(v, "max_year", c.MaxYear)
	setInt64(v, "min_revenue", c.MinRevenue)
	setInt64(v, "max_revenue", c.MaxRevenue)
	setString(v, "genre", c.Genre)
	setInt(v, "min_runtime", c.MinRuntime)
	setInt(v, "max_runtime", c.MaxRuntime)
	setString(v, "original_language", c.OriginalLanguage)
	setString(v, "spoken_language", c.SpokenLanguage)
	setInt(v, "limit", c.Limit)
	return v
}

func setFloat(v url.Values, key string, f *float64) {
	if f != nil {
		v.Set(key, strconv.FormatFloat(*f, 'f', -1, 64))
	}
}

func setInt(v url.Values, key string, i *int) {
	if i != nil {
		v.Set(key, strconv.Itoa(*i))
	}
}

func setInt64(v url.Values, key string, i *int64) {
	if i != nil {
		v.Set(key, strconv.FormatInt(*i, 10))
	}
}

func setString(v url.Values, key string, s *string) {
	if s != nil && *s != "" {
		v.Set(key, *s)
	}
}
