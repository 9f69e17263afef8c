// Package dialogue implements the guided conversation policy for signed-in
// users: the five orientation phases, the deterministic next-question and
// action rules, and the system prompts sent to the completion gateway.
package dialogue

import "strings"

// Phase is one of the five orientation phases a user moves through.
type Phase string

const (
	PhaseInteresseren Phase = "interesseren"
	PhaseOrienteren   Phase = "orienteren"
	PhaseBeslissen    Phase = "beslissen"
	PhaseMatchen      Phase = "matchen"
	PhaseVoorbereiden Phase = "voorbereiden"
)

// Phases lists all phases in funnel order.
var Phases = []Phase{
	PhaseInteresseren,
	PhaseOrienteren,
	PhaseBeslissen,
	PhaseMatchen,
	PhaseVoorbereiden,
}

// Rule describes how the assistant should behave in a phase.
type Rule struct {
	Code        Phase
	Title       string
	Description string
	Intent      string
	Tone        string
}

var phaseRules = map[Phase]Rule{
	PhaseInteresseren: {
		Code:        PhaseInteresseren,
		Title:       "Interesseren",
		Description: "Kennismaking met onderwijs als potentiële arbeidsmarkt.",
		Intent:      "verhelderen",
		Tone:        "Logisch dat je benieuwd bent!",
	},
	PhaseOrienteren: {
		Code:        PhaseOrienteren,
		Title:       "Oriënteren",
		Description: "Overweging of functie in onderwijs passend is.",
		Intent:      "geruststellen",
		Tone:        "Die twijfel hoor ik vaker, heel normaal.",
	},
	PhaseBeslissen: {
		Code:        PhaseBeslissen,
		Title:       "Beslissen",
		Description: "Beslismoment: de stap wél of niet maken.",
		Intent:      "structureren",
		Tone:        "Laten we het overzichtelijk maken.",
	},
	PhaseMatchen: {
		Code:        PhaseMatchen,
		Title:       "Matchen",
		Description: "Geschikte werk- en/of opleidingsplek vinden.",
		Intent:      "activeren",
		Tone:        "Goed dat je concrete stappen wilt zetten!",
	},
	PhaseVoorbereiden: {
		Code:        PhaseVoorbereiden,
		Title:       "Voorbereiden",
		Description: "Voorbereiding vóór eerste werk- of opleidingsdag.",
		Intent:      "borgen",
		Tone:        "Je bent er bijna, even de puntjes op de i.",
	},
}

// ParsePhase normalizes a stored phase value. Unknown or empty values fall
// back to the first phase.
func ParsePhase(value string) Phase {
	p := Phase(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := phaseRules[p]; ok {
		return p
	}
	return PhaseInteresseren
}

// IsValidPhase reports whether value names a known phase exactly.
func IsValidPhase(value string) bool {
	_, ok := phaseRules[Phase(value)]
	return ok
}

// RuleFor returns the behavior rule for a phase, falling back to the
// interesseren rule for unknown phases.
func RuleFor(phase Phase) Rule {
	if rule, ok := phaseRules[phase]; ok {
		return rule
	}
	return phaseRules[PhaseInteresseren]
}

// welcomeInfo is the short phase framing used in the welcome message.
// Titles here are lowercase display forms, distinct from Rule titles.
var welcomeInfo = map[Phase]struct {
	title   string
	context string
}{
	PhaseInteresseren: {"interesseren", "Je verkent of het onderwijs iets voor je is."},
	PhaseOrienteren:   {"oriënteren", "Je bekijkt welke richting het beste bij je past."},
	PhaseBeslissen:    {"beslissen", "Je staat voor een keuze en wilt het helder krijgen."},
	PhaseMatchen:      {"matchen", "Je zoekt een concrete school of opleiding."},
	PhaseVoorbereiden: {"voorbereiden", "Je maakt je klaar voor de start."},
}

// PhaseAction is a suggestion chip for the signed-in chat. Value is the
// message sent when the chip is clicked.
type PhaseAction struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var welcomeActions = map[Phase][]PhaseAction{
	PhaseInteresseren: {
		{Label: "Lesgeven", Value: "Ik ben geïnteresseerd in lesgeven"},
		{Label: "Begeleiding", Value: "Ik ben geïnteresseerd in begeleiding"},
		{Label: "Vakexpertise", Value: "Ik ben geïnteresseerd in vakexpertise"},
	},
	PhaseOrienteren: {
		{Label: "PO (basisonderwijs)", Value: "Ik wil me oriënteren op PO"},
		{Label: "VO (voortgezet)", Value: "Ik wil me oriënteren op VO"},
		{Label: "MBO (beroepsonderwijs)", Value: "Ik wil me oriënteren op MBO"},
	},
	PhaseBeslissen: {
		{Label: "Kosten bekijken", Value: "Ik wil meer weten over de kosten"},
		{Label: "Vacatures", Value: "Ik wil vacatures bekijken"},
		{Label: "Gesprek plannen", Value: "Ik wil een gesprek plannen"},
	},
	PhaseMatchen: {
		{Label: "Scholen zoeken", Value: "Ik wil scholen zoeken in mijn regio"},
		{Label: "Vacatures", Value: "Ik wil vacatures bekijken"},
	},
	PhaseVoorbereiden: {
		{Label: "Checklist bekijken", Value: "Wat moet ik nog regelen?"},
		{Label: "Gesprek plannen", Value: "Ik wil een gesprek plannen"},
	},
}

// WelcomeActions returns the suggestion chips shown with a phase's
// greeting, falling back to the interesseren set for unknown phases.
func WelcomeActions(phase Phase) []PhaseAction {
	if chips, ok := welcomeActions[phase]; ok {
		return chips
	}
	return welcomeActions[PhaseInteresseren]
}

// WelcomeMessage builds the greeting shown when a user has no conversation
// yet, framed for their current phase.
func WelcomeMessage(phase Phase) (content string, actions []PhaseAction) {
	info, ok := welcomeInfo[phase]
	if !ok {
		info = welcomeInfo[PhaseInteresseren]
	}
	chips, ok := welcomeActions[phase]
	if !ok {
		chips = welcomeActions[PhaseInteresseren]
	}

	content = "Welkom terug! Fijn dat je er bent 👋\n\n" +
		"Je zit nu in de **" + info.title + "**-fase. " + info.context +
		"\n\nWaar kan ik je vandaag mee helpen?"
	return content, chips
}
