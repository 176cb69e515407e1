package extraction

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"voice-task-service/internal/models"
)

var (
	absoluteDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	weekdayRe      = regexp.MustCompile(`\b(lundi|mardi|mercredi|jeudi|vendredi|samedi|dimanche)(\s+prochain)?\b`)
)

var weekdays = map[string]time.Weekday{
	"lundi":    time.Monday,
	"mardi":    time.Tuesday,
	"mercredi": time.Wednesday,
	"jeudi":    time.Thursday,
	"vendredi": time.Friday,
	"samedi":   time.Saturday,
	"dimanche": time.Sunday,
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseDate recognizes, in priority order: explicit DD/MM/YYYY dates,
// named relative terms, and weekday references with an optional "prochain"
// modifier that forces resolution into next week (strictly in the future
// even when invoked on the named weekday itself). No match yields kind
// none and a nil date; defaulting, if any, happens downstream.
func ParseDate(text string, now time.Time) models.DateFacet {
	lower := strings.ToLower(text)

	if m := absoluteDateRe.FindStringSubmatch(lower); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
		// Reject rollovers like 32/01 becoming 01/02
		if d.Day() == day && int(d.Month()) == month {
			return models.DateFacet{Date: &d, Kind: models.DateAbsolute, Confidence: 0.95, Reason: "explicit date " + m[0]}
		}
	}

	// après-demain must be checked before demain, which it contains.
	relatives := []struct {
		term string
		days int
	}{
		{"aujourd'hui", 0},
		{"ce soir", 0},
		{"après-demain", 2},
		{"demain", 1},
	}
	for _, rel := range relatives {
		if strings.Contains(lower, rel.term) {
			d := midnight(now).AddDate(0, 0, rel.days)
			return models.DateFacet{Date: &d, Kind: models.DateRelative, Confidence: 0.9, Reason: "relative term " + rel.term}
		}
	}

	if m := weekdayRe.FindStringSubmatch(lower); m != nil {
		target := weekdays[m[1]]
		hasProchain := m[2] != ""
		delta := (int(target) - int(now.Weekday()) + 7) % 7
		if hasProchain {
			// "prochain" skips to next week's occurrence.
			if delta == 0 {
				delta = 7
			} else {
				delta += 7
			}
		} else if delta == 0 {
			delta = 7
		}
		d := midnight(now).AddDate(0, 0, delta)
		return models.DateFacet{Date: &d, Kind: models.DateRelative, Confidence: 0.85, Reason: "weekday reference " + strings.TrimSpace(m[0])}
	}

	return models.DateFacet{Kind: models.DateNone, Confidence: 0.3, Reason: "no date expression"}
}
