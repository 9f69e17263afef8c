package funnel

import "testing"

func TestParseMetaEnvelopeKeys(t *testing.T) {
	frame := []byte(`{"meta":{"intent":"vacatures"}}`)
	meta := ParseMeta(frame)
	if meta == nil || meta.Intent != IntentVacatures {
		t.Fatalf("meta key not parsed: %+v", meta)
	}

	frame = []byte(`{"assistant_meta":{"intent":"route"}}`)
	meta = ParseMeta(frame)
	if meta == nil || meta.Intent != IntentRoute {
		t.Fatalf("assistant_meta key not parsed: %+v", meta)
	}
}

func TestParseMetaAbsent(t *testing.T) {
	for _, raw := range []string{
		`{"choices":[{"delta":{"content":"hoi"}}]}`,
		`{"meta":null}`,
		`{"meta":{}}`,
		`not json`,
	} {
		if meta := ParseMeta([]byte(raw)); meta != nil {
			t.Errorf("ParseMeta(%q) = %+v, want nil", raw, meta)
		}
	}
}

func TestParseMetaFollowUpSpellings(t *testing.T) {
	frame := []byte(`{"meta":{"follow_ups":[{"label":"Vraag","text":"t?"}]}}`)
	meta := ParseMeta(frame)
	if meta == nil || len(meta.FollowUps) != 1 {
		t.Fatalf("follow_ups spelling not parsed: %+v", meta)
	}
}

func TestMetaActionsKindDefaults(t *testing.T) {
	meta := &Meta{FollowUps: []MetaFollowUp{
		{Label: "Met href", Href: "/pagina"},
		{Label: "Met text", Text: "vraag?"},
	}}

	actions := meta.Actions()
	if len(actions) != 2 {
		t.Fatalf("len = %d, want 2", len(actions))
	}
	if actions[0].Kind != ActionNav {
		t.Errorf("href follow-up should default to nav, got %q", actions[0].Kind)
	}
	if actions[1].Kind != ActionAsk {
		t.Errorf("text follow-up should default to ask, got %q", actions[1].Kind)
	}
}

func TestMetaActionsInvalidDropped(t *testing.T) {
	meta := &Meta{
		FollowUps: []MetaFollowUp{
			{Kind: ActionAsk, Label: "leeg", Text: "   "},
			{Kind: ActionNav, Label: "slecht", Href: "javascript:x"},
		},
		CTA: &MetaCTA{Label: "ook slecht", Href: "mailto:x@y"},
	}

	if actions := meta.Actions(); actions != nil {
		t.Fatalf("all-invalid meta should yield nil, got %v", actions)
	}
}

func TestMetaActionsCTAAppended(t *testing.T) {
	meta := &Meta{
		FollowUps: []MetaFollowUp{{Kind: ActionAsk, Label: "Vraag", Text: "t?"}},
		CTA:       &MetaCTA{Label: "Maak profiel", Href: "/auth"},
	}

	actions := meta.Actions()
	if len(actions) != 2 {
		t.Fatalf("len = %d, want 2", len(actions))
	}
	last := actions[len(actions)-1]
	if last.Kind != ActionCTA || last.Href != "/auth" {
		t.Errorf("cta not appended: %+v", last)
	}
}

func TestMergeIntoFieldByField(t *testing.T) {
	local := Signals{Intent: IntentGeneral, Sector: SectorPO, StudyLevel: StudyLevelUnknown, Region: RegionUnknown}

	meta := &Meta{
		Intent:  IntentRoute,
		Signals: &MetaSignals{StudyLevel: StudyHBO},
	}

	merged := meta.MergeInto(local)
	if merged.Intent != IntentRoute {
		t.Errorf("Intent = %q, want route", merged.Intent)
	}
	if merged.Sector != SectorPO {
		t.Errorf("Sector overridden without meta opinion: %q", merged.Sector)
	}
	if merged.StudyLevel != StudyHBO {
		t.Errorf("StudyLevel = %q, want HBO", merged.StudyLevel)
	}
	if !merged.HasEnoughContext {
		t.Error("HasEnoughContext should be recomputed after merge")
	}
}

func TestMergeIntoSignalsIntentWins(t *testing.T) {
	meta := &Meta{
		Intent:  IntentRoute,
		Signals: &MetaSignals{Intent: IntentEvents},
	}

	merged := meta.MergeInto(NewSignals())
	if merged.Intent != IntentEvents {
		t.Errorf("signals.intent should win over top-level intent, got %q", merged.Intent)
	}
}

func TestMergeIntoNilMeta(t *testing.T) {
	var meta *Meta
	s := Signals{Intent: IntentRoute, Sector: SectorVO, StudyLevel: StudyWO, HasEnoughContext: true}
	if got := meta.MergeInto(s); got != s {
		t.Errorf("nil meta changed signals: %+v", got)
	}
}
