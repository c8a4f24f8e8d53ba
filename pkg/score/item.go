package score

import "strings"

// Single-valued attributes the model trains on, in stable order.
const (
	AttrStudio = "studio"
	AttrSource = "source"
	AttrFormat = "format"
	AttrRating = "rating"
	AttrSeason = "season"
)

// UnknownCategory is the literal category used for missing attribute values.
const UnknownCategory = "Unknown"

// GenreDelimiter separates tokens in a raw genre field.
const GenreDelimiter = ","

// Attributes lists the single-valued attributes in training and
// contribution order.
var Attributes = []string{AttrStudio, AttrSource, AttrFormat, AttrRating, AttrSeason}

var attrLabels = map[string]string{
	AttrStudio: "Studio",
	AttrSource: "Source",
	AttrFormat: "Format",
	AttrRating: "Rating",
	AttrSeason: "Season",
}

// AttrLabel returns the human-readable label for an attribute name.
func AttrLabel(attr string) string {
	if l, ok := attrLabels[attr]; ok {
		return l
	}
	return attr
}

// Item is one catalog entry, used both for training and as a query.
// Score is nil for query items; items without a score are never used
// for training.
type Item struct {
	Title  string   `json:"title,omitempty" yaml:"title,omitempty"`
	Studio string   `json:"studio,omitempty" yaml:"studio,omitempty"`
	Source string   `json:"source,omitempty" yaml:"source,omitempty"`
	Format string   `json:"format,omitempty" yaml:"format,omitempty"`
	Rating string   `json:"rating,omitempty" yaml:"rating,omitempty"`
	Season string   `json:"season,omitempty" yaml:"season,omitempty"`
	Genres []string `json:"genres,omitempty" yaml:"genres,omitempty"`
	Score  *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// Attr returns the raw value of the named single-valued attribute.
func (it Item) Attr(attr string) string {
	switch attr {
	case AttrStudio:
		return it.Studio
	case AttrSource:
		return it.Source
	case AttrFormat:
		return it.Format
	case AttrRating:
		return it.Rating
	case AttrSeason:
		return it.Season
	}
	return ""
}

// ParseGenres splits a raw delimited genre field into trimmed tokens,
// dropping empties. Order is preserved but irrelevant for scoring.
func ParseGenres(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, GenreDelimiter)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
