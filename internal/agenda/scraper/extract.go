package scraper

import (
	"regexp"
	"strings"
)

const (
	maxDescriptionLen  = 500
	maxEventsPerSource = 20
	minTitleLen        = 5
	maxTitleLen        = 200
)

// Event is one listing extracted from an agenda page.
type Event struct {
	Title       string `json:"title"`
	Date        string `json:"date,omitempty"`
	Source      string `json:"source"`
	Description string `json:"description"`
}

// Dutch date patterns, checked in order. The first match on a line marks
// it as the start of a new event.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`),
	regexp.MustCompile(`(?i)\d{1,2}\s+(januari|februari|maart|april|mei|juni|juli|augustus|september|oktober|november|december)\s+\d{4}`),
	regexp.MustCompile(`(?i)(januari|februari|maart|april|mei|juni|juli|augustus|september|oktober|november|december)\s+\d{4}`),
}

// eventKeywords filter out navigation fluff: a block is kept when it
// mentions one of these or carries a date.
var eventKeywords = []string{
	"open dag", "webinar", "meeloop", "informatie", "bijeenkomst",
	"workshop", "training", "oriëntatie", "kennismaking",
}

// ExtractEvents pulls event listings out of a scraped markdown page.
// Headers, bold lines and dated lines open a new event; plain lines feed
// the running description up to its cap. At most 20 events per source.
func ExtractEvents(markdown, sourceName string) []Event {
	var events []Event
	var current *Event

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		var dateStr string
		for _, pattern := range datePatterns {
			if match := pattern.FindString(trimmed); match != "" {
				dateStr = match
				break
			}
		}

		isMarker := strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "**") || dateStr != ""
		if isMarker {
			if current != nil && current.Title != "" {
				events = append(events, *current)
			}
			current = nil

			title := strings.TrimSpace(stripTitleMarkup(trimmed))
			if len(title) > minTitleLen && len(title) < maxTitleLen {
				current = &Event{
					Title:  title,
					Date:   dateStr,
					Source: sourceName,
				}
			}
			continue
		}

		if current != nil && len(trimmed) > 10 && len(current.Description) < maxDescriptionLen {
			if current.Description != "" {
				current.Description += " "
			}
			current.Description += trimmed
		}
	}
	if current != nil && current.Title != "" {
		events = append(events, *current)
	}

	kept := make([]Event, 0, len(events))
	for _, e := range events {
		if likelyEvent(e) {
			kept = append(kept, e)
		}
		if len(kept) == maxEventsPerSource {
			break
		}
	}
	return kept
}

func likelyEvent(e Event) bool {
	if e.Date != "" {
		return true
	}
	text := strings.ToLower(e.Title + " " + e.Description)
	for _, kw := range eventKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

var (
	reHeaderPrefix = regexp.MustCompile(`^#+\s*`)
	reBoldPrefix   = regexp.MustCompile(`^\*\*`)
	reBoldSuffix   = regexp.MustCompile(`\*\*$`)
)

func stripTitleMarkup(line string) string {
	line = reHeaderPrefix.ReplaceAllString(line, "")
	line = reBoldPrefix.ReplaceAllString(line, "")
	return reBoldSuffix.ReplaceAllString(line, "")
}
