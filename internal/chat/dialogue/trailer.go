package dialogue

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Older assistant replies carried their action chips inline as an HTML
// comment trailer. Messages persisted mid-stream can hold a truncated
// trailer with no closing marker.
var (
	reActionsTrailer   = regexp.MustCompile(`(?s)<!--ACTIONS:(\[.*?\])-->`)
	reTruncatedTrailer = regexp.MustCompile(`(?s)<!--ACTIONS:.*$`)
)

// StripActionsTrailer removes a legacy actions trailer, well-formed or
// truncated, and trims trailing whitespace. The parsed actions are
// returned when the trailer held valid JSON.
func StripActionsTrailer(content string) (string, []PhaseAction) {
	var actions []PhaseAction

	if match := reActionsTrailer.FindStringSubmatch(content); match != nil {
		if err := json.Unmarshal([]byte(match[1]), &actions); err != nil {
			actions = nil
		}
	}

	clean := reActionsTrailer.ReplaceAllString(content, "")
	clean = reTruncatedTrailer.ReplaceAllString(clean, "")
	return strings.TrimRight(clean, " \t\r\n"), actions
}
