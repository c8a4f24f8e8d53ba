package data

import (
	"strings"
	"time"
	"unicode"
)

// UnknownSeason is the season value for items whose release period is not
// known. Matches the literal Unknown category the model trains on.
const UnknownSeason = "Unknown"

// premieredUnknown is the sentinel some catalog exports use for an
// unknown release period.
const premieredUnknown = "UNKNOWN"

var seasons = []string{"Winter", "Spring", "Summer", "Fall"}

// DeriveSeason extracts the capitalized season word from a release-period
// descriptor of the form "<SeasonWord> <Year>" (e.g. "Spring 2009").
// The sentinel "UNKNOWN" and empty input yield "Unknown".
func DeriveSeason(premiered string) string {
	premiered = strings.TrimSpace(premiered)
	if premiered == "" || strings.EqualFold(premiered, premieredUnknown) {
		return UnknownSeason
	}
	word := strings.Fields(premiered)[0]
	return capitalize(word)
}

// SeasonOfMonth buckets a month into its release season:
// Jan-Mar Winter, Apr-Jun Spring, Jul-Sep Summer, Oct-Dec Fall.
func SeasonOfMonth(m time.Month) string {
	return seasons[(int(m)-1)/3]
}

// SeasonOfDate derives the season from an air-date string (RFC3339 or
// plain date), used as a fallback when no release-period descriptor is
// available. Unparseable input yields "Unknown".
func SeasonOfDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return UnknownSeason
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, date); err == nil {
			return SeasonOfMonth(t.Month())
		}
	}
	return UnknownSeason
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
