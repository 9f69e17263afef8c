package dialogue

import (
	"strings"
	"testing"
)

func TestParsePhase(t *testing.T) {
	if got := ParsePhase("Beslissen"); got != PhaseBeslissen {
		t.Errorf("ParsePhase(Beslissen) = %q", got)
	}
	if got := ParsePhase(""); got != PhaseInteresseren {
		t.Errorf("empty phase should fall back, got %q", got)
	}
	if got := ParsePhase("onzin"); got != PhaseInteresseren {
		t.Errorf("unknown phase should fall back, got %q", got)
	}
}

func TestExtractSchoolType(t *testing.T) {
	cases := []struct {
		text string
		want SchoolType
	}{
		{"ik wil naar de basisschool", SchoolPO},
		{"het voortgezet onderwijs", SchoolVO},
		{"lesgeven op het mbo", SchoolMBO},
		{"gewoon een vraag", SchoolUnknown},
		{"sportman", SchoolUnknown},
	}
	for _, tc := range cases {
		if got := ExtractSchoolType(tc.text); got != tc.want {
			t.Errorf("ExtractSchoolType(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestNextQuestionSectorOverride(t *testing.T) {
	// Past the first phase without a sector, the sector question wins
	for _, phase := range []Phase{PhaseOrienteren, PhaseBeslissen, PhaseMatchen, PhaseVoorbereiden} {
		q := NextQuestion(phase, SchoolUnknown)
		if q != "In welke sector wil je je oriënteren: PO, VO of MBO?" {
			t.Errorf("phase %s without sector: got %q", phase, q)
		}
	}

	// In the first phase the sector question never fires
	if q := NextQuestion(PhaseInteresseren, SchoolUnknown); q != "Wat trekt je het meest aan?" {
		t.Errorf("interesseren question = %q", q)
	}

	// With a known sector the phase question applies
	if q := NextQuestion(PhaseMatchen, SchoolVO); q != "In welke regio wil je zoeken?" {
		t.Errorf("matchen question = %q", q)
	}
}

func TestChooseActionsSectorTrio(t *testing.T) {
	actions := ChooseActions(PhaseBeslissen, SchoolUnknown)
	if len(actions) != 3 || actions[0].Label != "PO (basisonderwijs)" {
		t.Fatalf("expected sector trio, got %v", actions)
	}

	// interesseren never shows the trio
	actions = ChooseActions(PhaseInteresseren, SchoolUnknown)
	if actions[0].Label != "Lesgeven" {
		t.Errorf("interesseren actions = %v", actions)
	}

	// orienteren with known sector gets the generic fallback pair
	actions = ChooseActions(PhaseOrienteren, SchoolPO)
	if len(actions) != 2 || actions[0].Label != "Routes bekijken" {
		t.Errorf("orienteren actions = %v", actions)
	}
}

func TestWelcomeMessage(t *testing.T) {
	content, actions := WelcomeMessage(PhaseMatchen)
	if !strings.Contains(content, "**matchen**-fase") {
		t.Errorf("welcome content missing phase: %q", content)
	}
	if len(actions) != 2 || actions[0].Label != "Scholen zoeken" {
		t.Errorf("matchen welcome actions = %v", actions)
	}

	// Unknown phase falls back to interesseren
	content, actions = WelcomeMessage(Phase("onzin"))
	if !strings.Contains(content, "**interesseren**-fase") {
		t.Errorf("fallback welcome content: %q", content)
	}
	if len(actions) != 3 {
		t.Errorf("fallback welcome actions = %v", actions)
	}
}

func TestBuildSystemPromptAuthenticated(t *testing.T) {
	prompt := BuildSystemPrompt(ModeAuthenticated, PromptContext{
		Phase:      PhaseOrienteren,
		Sector:     "VO",
		SchoolType: SchoolVO,
	})

	for _, want := range []string{
		"Ingelogd: Ja",
		"Huidige fase: Oriënteren",
		"Voorkeursector: VO",
		"Extracted school_type: VO",
		`Je MOET eindigen met deze vervolgvraag: "Wil je weten welke route bij je past, of welke diploma's je nodig hebt?"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildSystemPromptPublic(t *testing.T) {
	prompt := BuildSystemPrompt(ModePublic, PromptContext{})
	if !strings.Contains(prompt, "Ingelogd: Nee") {
		t.Error("public prompt missing unauthenticated framing")
	}
	if strings.Contains(prompt, "Detector output") {
		t.Error("public prompt should not carry detector context")
	}
}

func TestStripActionsTrailer(t *testing.T) {
	content := "Goede vraag!\n\n<!--ACTIONS:[{\"label\":\"Vacatures\",\"value\":\"Ik wil vacatures bekijken\"}]-->"
	clean, actions := StripActionsTrailer(content)
	if clean != "Goede vraag!" {
		t.Errorf("clean = %q", clean)
	}
	if len(actions) != 1 || actions[0].Label != "Vacatures" {
		t.Errorf("actions = %v", actions)
	}
}

func TestStripActionsTrailerTruncated(t *testing.T) {
	content := "Antwoord hier\n<!--ACTIONS:[{\"label\":\"afgebro"
	clean, actions := StripActionsTrailer(content)
	if clean != "Antwoord hier" {
		t.Errorf("clean = %q", clean)
	}
	if actions != nil {
		t.Errorf("truncated trailer should yield no actions, got %v", actions)
	}
}

func TestStripActionsTrailerNone(t *testing.T) {
	clean, actions := StripActionsTrailer("Gewoon tekst")
	if clean != "Gewoon tekst" || actions != nil {
		t.Errorf("got %q, %v", clean, actions)
	}
}
