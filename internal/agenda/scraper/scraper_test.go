package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"onderwijsloket_backend/platform/logger"
)

func TestExtractEventsFromHeaders(t *testing.T) {
	markdown := `# Open dag Pabo Rotterdam
Kom kennismaken met de opleiding tot leraar basisonderwijs.
Aanmelden kan via de website.

# Webinar zij-instroom
Alles over de tweejarige route naast je baan.`

	events := ExtractEvents(markdown, "Onderwijsloket Rotterdam")
	if len(events) != 2 {
		t.Fatalf("events = %v", events)
	}
	if events[0].Title != "Open dag Pabo Rotterdam" {
		t.Errorf("title = %q", events[0].Title)
	}
	if !strings.Contains(events[0].Description, "kennismaken") {
		t.Errorf("description = %q", events[0].Description)
	}
	if events[0].Source != "Onderwijsloket Rotterdam" {
		t.Errorf("source = %q", events[0].Source)
	}
}

func TestExtractEventsDatedLineStartsEvent(t *testing.T) {
	markdown := `12 maart 2026 informatieavond leraarschap
Locatie volgt nog, aanmelden verplicht.`

	events := ExtractEvents(markdown, "Onderwijs010")
	if len(events) != 1 {
		t.Fatalf("events = %v", events)
	}
	if events[0].Date != "12 maart 2026" {
		t.Errorf("date = %q", events[0].Date)
	}
}

func TestExtractEventsFiltersNonEvents(t *testing.T) {
	markdown := `# Over ons
Wij zijn het loket voor onderwijs in de regio en vertellen je er alles over.

# Workshop lesgeven voor starters
Praktische eerste stappen voor de klas, meld je snel aan.`

	events := ExtractEvents(markdown, "bron")
	if len(events) != 1 || events[0].Title != "Workshop lesgeven voor starters" {
		t.Errorf("events = %v", events)
	}
}

func TestExtractEventsCapsPerSource(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("# Open dag nummer zoveel\nEen hele leuke open dag voor iedereen.\n")
	}

	events := ExtractEvents(b.String(), "bron")
	if len(events) != 20 {
		t.Errorf("len = %d, want 20", len(events))
	}
}

func TestExtractEventsDescriptionCap(t *testing.T) {
	long := strings.Repeat("heel veel tekst over deze open dag ", 40)
	markdown := "# Open dag\n" + long

	events := ExtractEvents(markdown, "bron")
	if len(events) != 1 {
		t.Fatalf("events = %v", events)
	}
	// one appended chunk may cross the threshold, but growth stops there
	if len(events[0].Description) > maxDescriptionLen+len(long) {
		t.Errorf("description length = %d", len(events[0].Description))
	}
}

func TestScrapeSendsFirecrawlRequest(t *testing.T) {
	var captured scrapeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer fc-key" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/v1/scrape" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]string{"markdown": "# Open dag\nKom langs voor informatie."},
		})
	}))
	defer server.Close()

	client := NewClient("fc-key", logger.New("test"))
	client.BaseURL = server.URL

	markdown, err := client.Scrape(context.Background(), "https://voorbeeld.nl/activiteiten")
	if err != nil {
		t.Fatal(err)
	}

	if captured.URL != "https://voorbeeld.nl/activiteiten" {
		t.Errorf("url = %q", captured.URL)
	}
	if len(captured.Formats) != 1 || captured.Formats[0] != "markdown" {
		t.Errorf("formats = %v", captured.Formats)
	}
	if !captured.OnlyMainContent || captured.WaitFor != 2000 {
		t.Errorf("request = %+v", captured)
	}
	if !strings.HasPrefix(markdown, "# Open dag") {
		t.Errorf("markdown = %q", markdown)
	}
}

func TestScrapeErrorOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer server.Close()

	client := NewClient("fc-key", logger.New("test"))
	client.BaseURL = server.URL

	if _, err := client.Scrape(context.Background(), "https://voorbeeld.nl"); err == nil {
		t.Fatal("expected error")
	}
}
