package funnel

import (
	"regexp"
	"strings"
)

// ActionKind distinguishes how a quick action behaves when clicked.
type ActionKind string

const (
	// ActionAsk sends a prepared question into the chat.
	ActionAsk ActionKind = "ask"
	// ActionNav links to an internal page.
	ActionNav ActionKind = "nav"
	// ActionCTA is the highlighted conversion link.
	ActionCTA ActionKind = "cta"
)

// QuickAction is a suggestion chip rendered under an assistant message.
type QuickAction struct {
	Kind  ActionKind `json:"kind"`
	Label string     `json:"label"`
	Text  string     `json:"text,omitempty"`
	Href  string     `json:"href,omitempty"`
}

// Site routes the funnel may navigate to.
const (
	RouteAuth        = "/auth"
	RouteOpleidingen = "/opleidingen"
	RouteVacatures   = "/vacatures"
	RouteEvents      = "/events"
	RouteKennisbank  = "/kennisbank"
)

// MaxLabelLen is the display cap for action labels.
const MaxLabelLen = 48

// MaxActions is the display cap for suggestion chips per message.
const MaxActions = 3

var reWhitespace = regexp.MustCompile(`\s+`)

// ShortLabel normalizes whitespace and truncates the label to MaxLabelLen
// runes, appending an ellipsis when truncated.
func ShortLabel(label string) string {
	trimmed := reWhitespace.ReplaceAllString(strings.TrimSpace(label), " ")
	runes := []rune(trimmed)
	if len(runes) <= MaxLabelLen {
		return trimmed
	}
	return string(runes[:MaxLabelLen-1]) + "…"
}

// IsValidHref reports whether href is an internal path or an absolute
// http(s) URL. Anything else (javascript:, mailto:, empty) is rejected.
func IsValidHref(href string) bool {
	h := strings.TrimSpace(href)
	if h == "" {
		return false
	}
	return strings.HasPrefix(h, "/") || strings.HasPrefix(h, "http://") || strings.HasPrefix(h, "https://")
}

// IsInternalHref reports whether href points at a page within the site.
func IsInternalHref(href string) bool {
	return strings.HasPrefix(href, "/")
}

// Valid reports whether the action can do anything when clicked: ask needs
// question text, nav and cta need a valid href.
func (a QuickAction) Valid() bool {
	if a.Kind == ActionAsk {
		return strings.TrimSpace(a.Text) != ""
	}
	return IsValidHref(a.Href)
}

func uniqByLabel(actions []QuickAction) []QuickAction {
	seen := make(map[string]struct{}, len(actions))
	result := make([]QuickAction, 0, len(actions))
	for _, a := range actions {
		key := strings.ToLower(a.Label)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, a)
	}
	return result
}

// Finalize applies the display rules to a candidate action list: drop
// invalid actions, dedupe by case-insensitive label keeping the first,
// cap at MaxActions. Running it twice gives the same result.
func Finalize(actions []QuickAction) []QuickAction {
	valid := make([]QuickAction, 0, len(actions))
	for _, a := range actions {
		if a.Valid() {
			valid = append(valid, a)
		}
	}
	cleaned := uniqByLabel(valid)
	if len(cleaned) > MaxActions {
		cleaned = cleaned[:MaxActions]
	}
	return cleaned
}

// NextActions computes the suggestion chips for the current funnel state.
// The list is built in three fixed slots: the best next question, a
// relevant internal page, and a conversion link or nudge.
func NextActions(s Signals) []QuickAction {
	actions := make([]QuickAction, 0, 3)

	// 1) Best next question based on missing info
	switch {
	case s.Sector == SectorUnknown:
		actions = append(actions, QuickAction{
			Kind:  ActionAsk,
			Label: ShortLabel("Help me kiezen tussen PO, VO en MBO"),
			Text:  "Ik twijfel tussen PO/VO/MBO — kun je me helpen kiezen?",
		})
	case s.StudyLevel == StudyLevelUnknown:
		actions = append(actions, QuickAction{
			Kind:  ActionAsk,
			Label: ShortLabel("Wat betekent mijn opleidingsniveau?"),
			Text:  "Mijn hoogste opleiding is: (MBO/HBO/WO). Wat betekent dat voor mijn route?",
		})
	default:
		if q, ok := intentQuestions[s.Intent]; ok {
			actions = append(actions, q)
		} else {
			actions = append(actions, QuickAction{
				Kind:  ActionAsk,
				Label: ShortLabel("Welke route past het best bij mij?"),
				Text:  "Welke route past het beste bij mij?",
			})
		}
	}

	// 2) Relevant internal nav
	if nav, ok := intentNav[s.Intent]; ok {
		actions = append(actions, nav)
	} else {
		actions = append(actions, QuickAction{
			Kind:  ActionNav,
			Label: ShortLabel("Bekijk de kennisbank"),
			Href:  RouteKennisbank,
		})
	}

	// 3) CTA or fallback question
	switch {
	case s.HasEnoughContext:
		actions = append(actions, QuickAction{
			Kind:  ActionCTA,
			Label: ShortLabel("Maak een gratis profiel aan"),
			Href:  RouteAuth,
		})
	case s.Sector == SectorUnknown:
		actions = append(actions, QuickAction{
			Kind:  ActionAsk,
			Label: ShortLabel("Ik wil naar het basisonderwijs (PO)"),
			Text:  "Ik wil richting basisonderwijs (PO).",
		})
	case s.StudyLevel == StudyLevelUnknown:
		actions = append(actions, QuickAction{
			Kind:  ActionAsk,
			Label: ShortLabel("Ik heb een HBO-diploma"),
			Text:  "Ik heb een HBO-diploma. Wat zijn mijn opties?",
		})
	default:
		actions = append(actions, QuickAction{
			Kind:  ActionAsk,
			Label: ShortLabel("Vat mijn opties samen"),
			Text:  "Kun je mijn opties samenvatten?",
		})
	}

	return Finalize(actions)
}

// InitialActions are the chips shown with the welcome message before the
// visitor has said anything.
func InitialActions() []QuickAction {
	return []QuickAction{
		{Kind: ActionAsk, Label: ShortLabel("Welke route past bij mij?"), Text: "Welke route past bij mij om leraar te worden?"},
		{Kind: ActionAsk, Label: ShortLabel("Help me kiezen: PO, VO of MBO"), Text: "Welke sector past bij mij (PO/VO/MBO)?"},
		{Kind: ActionAsk, Label: ShortLabel("Ik werk al en wil overstappen"), Text: "Ik werk al. Kan ik overstappen naar het onderwijs?"},
	}
}

// FallbackActions are the recovery chips shown with the apology message
// when the completion stream fails.
func FallbackActions() []QuickAction {
	return []QuickAction{
		{Kind: ActionAsk, Label: ShortLabel("Kun je dat nog eens proberen?"), Text: "Kun je dat nog eens uitleggen?"},
		{Kind: ActionNav, Label: ShortLabel("Bekijk de kennisbank"), Href: RouteKennisbank},
		{Kind: ActionCTA, Label: ShortLabel("Maak een gratis profiel aan"), Href: RouteAuth},
	}
}

var intentQuestions = map[Intent]QuickAction{
	IntentRoute: {
		Kind:  ActionAsk,
		Label: ShortLabel("Hoe werkt zij-instroom precies?"),
		Text:  "Hoe werkt zij-instroom voor mij, stap voor stap?",
	},
	IntentToelating: {
		Kind:  ActionAsk,
		Label: ShortLabel("Welke diploma's heb ik nodig?"),
		Text:  "Welke diploma's of bevoegdheid heb ik nodig in mijn situatie?",
	},
	IntentVacatures: {
		Kind:  ActionAsk,
		Label: ShortLabel("Vacatures bij mij in de buurt"),
		Text:  "Welke vacatures passen bij mij (en waar)?",
	},
	IntentEvents: {
		Kind:  ActionAsk,
		Label: ShortLabel("Wanneer zijn er open dagen?"),
		Text:  "Wanneer zijn er open dagen of webinars?",
	},
}

var intentNav = map[Intent]QuickAction{
	IntentVacatures: {Kind: ActionNav, Label: ShortLabel("Bekijk alle vacatures"), Href: RouteVacatures},
	IntentEvents:    {Kind: ActionNav, Label: ShortLabel("Bekijk aankomende events"), Href: RouteEvents},
	IntentToelating: {Kind: ActionNav, Label: ShortLabel("Bekijk opleidingsroutes"), Href: RouteOpleidingen},
	IntentRoute:     {Kind: ActionNav, Label: ShortLabel("Bekijk opleidingsroutes"), Href: RouteOpleidingen},
}
