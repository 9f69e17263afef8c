package funnel

import "testing"

func TestInferDetectsIntent(t *testing.T) {
	cases := []struct {
		text string
		want Intent
	}{
		{"hoe werkt zij-instroom?", IntentRoute},
		{"hoe werkt zijinstroom?", IntentRoute},
		{"welk traject past bij mij", IntentRoute},
		{"welke diploma's heb ik nodig", IntentToelating},
		{"ben ik bevoegd?", IntentToelating},
		{"zijn er vacatures in de buurt", IntentVacatures},
		{"ik zoek werk", IntentVacatures},
		{"wanneer is de volgende open dag", IntentEvents},
		{"is er een webinar", IntentEvents},
		{"hoe maak ik een account aan", IntentAccount},
		{"hallo daar", IntentGeneral},
	}

	for _, tc := range cases {
		got := Infer(NewSignals(), tc.text)
		if got.Intent != tc.want {
			t.Errorf("Infer(%q).Intent = %q, want %q", tc.text, got.Intent, tc.want)
		}
	}
}

func TestInferDetectsSectorWordBounded(t *testing.T) {
	s := Infer(NewSignals(), "ik wil naar het po")
	if s.Sector != SectorPO {
		t.Fatalf("expected PO, got %q", s.Sector)
	}

	// "po" inside a longer word must not match
	s = Infer(NewSignals(), "ik ben een sportman")
	if s.Sector != SectorUnknown {
		t.Fatalf("expected UNK for embedded 'po', got %q", s.Sector)
	}

	s = Infer(NewSignals(), "het basisonderwijs lijkt me leuk")
	if s.Sector != SectorPO {
		t.Fatalf("expected PO for basisonderwijs, got %q", s.Sector)
	}

	s = Infer(NewSignals(), "de middelbare school")
	if s.Sector != SectorVO {
		t.Fatalf("expected VO, got %q", s.Sector)
	}
}

func TestInferMBOSetsSectorAndStudyLevel(t *testing.T) {
	// "mbo" is both a sector keyword and a study level keyword
	s := Infer(NewSignals(), "ik heb een mbo achtergrond")
	if s.Sector != SectorMBO {
		t.Errorf("Sector = %q, want MBO", s.Sector)
	}
	if s.StudyLevel != StudyMBO {
		t.Errorf("StudyLevel = %q, want MBO", s.StudyLevel)
	}
}

func TestInferMonotonicTightening(t *testing.T) {
	s := NewSignals()
	s = Infer(s, "ik wil naar het basisonderwijs")
	if s.Sector != SectorPO {
		t.Fatalf("setup: expected PO, got %q", s.Sector)
	}

	// A later message without sector markers keeps the sector
	s = Infer(s, "wat moet ik daarvoor doen?")
	if s.Sector != SectorPO {
		t.Errorf("sector reset by unrelated message: got %q", s.Sector)
	}

	// But an explicit new value does override
	s = Infer(s, "toch liever voortgezet onderwijs")
	if s.Sector != SectorVO {
		t.Errorf("sector not updated: got %q", s.Sector)
	}
}

func TestInferHasEnoughContext(t *testing.T) {
	s := NewSignals()
	if s.HasEnoughContext {
		t.Fatal("fresh signals should not have enough context")
	}

	s = Infer(s, "ik wil naar het basisonderwijs")
	if s.HasEnoughContext {
		t.Error("sector alone should not be enough context")
	}

	s = Infer(s, "ik heb een hbo diploma")
	if !s.HasEnoughContext {
		t.Error("sector + study level should be enough context")
	}
	if s.StudyLevel != StudyHBO {
		t.Errorf("StudyLevel = %q, want HBO", s.StudyLevel)
	}
}

func TestInferRegion(t *testing.T) {
	s := Infer(NewSignals(), "ik woon in Rotterdam")
	if s.Region != RegionRotterdam {
		t.Errorf("Region = %q, want ROTTERDAM", s.Region)
	}

	s = Infer(NewSignals(), "ik woon buiten rotterdam")
	// "rotterdam" family is checked first, so this resolves to ROTTERDAM
	if s.Region != RegionRotterdam {
		t.Errorf("Region = %q, want ROTTERDAM (first family wins)", s.Region)
	}

	s = Infer(NewSignals(), "ergens anders")
	if s.Region != RegionOther {
		t.Errorf("Region = %q, want OVERIG", s.Region)
	}
}

func TestInferDoesNotMutatePrev(t *testing.T) {
	prev := NewSignals()
	_ = Infer(prev, "ik wil po en heb wo")
	if prev.Sector != SectorUnknown || prev.StudyLevel != StudyLevelUnknown {
		t.Error("Infer mutated its input")
	}
}
