package duo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func recordsBody(records []Record) []byte {
	body, _ := json.Marshal(map[string]any{
		"result": map[string]any{"records": records},
	})
	return body
}

func TestFetchSectorUsesStructuredFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("filters"); got != `{"GEMEENTE":"Rotterdam"}` {
			t.Errorf("filters = %q", got)
		}
		w.Write(recordsBody([]Record{{"GEMEENTE": "Rotterdam", "NAAM": "De Regenboog"}}))
	}))
	defer server.Close()

	records, err := NewClient(server.URL).FetchSector(context.Background(), "res-po", "Rotterdam")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0]["NAAM"] != "De Regenboog" {
		t.Errorf("records = %v", records)
	}
}

func TestFetchSectorFallsBackToQueryOn409(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RawQuery)
		if r.URL.Query().Get("filters") != "" {
			w.WriteHeader(http.StatusConflict)
			return
		}
		if r.URL.Query().Get("q") != "Rotterdam" {
			t.Errorf("q = %q", r.URL.Query().Get("q"))
		}
		w.Write(recordsBody([]Record{{"gemeente": "Rotterdam"}}))
	}))
	defer server.Close()

	records, err := NewClient(server.URL).FetchSector(context.Background(), "res-vo", "Rotterdam")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Errorf("requests = %v", paths)
	}
	if len(records) != 1 {
		t.Errorf("records = %v", records)
	}
}

func TestFetchSectorUnfilteredFallbackFiltersLocally(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("filters") != "" || r.URL.Query().Get("q") != "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write(recordsBody([]Record{
			{"Gemeente": "Rotterdam", "NAAM": "Thorbecke"},
			{"Gemeente": "Utrecht", "NAAM": "Elders"},
		}))
	}))
	defer server.Close()

	records, err := NewClient(server.URL).FetchSector(context.Background(), "res-mbo", "Rotterdam")
	if err != nil {
		t.Fatal(err)
	}
	// filters attempt 400s, then the unfiltered fetch; no q retry since
	// only a 409 triggers that branch
	if calls != 2 {
		t.Errorf("calls = %d", calls)
	}
	if len(records) != 1 || records[0]["NAAM"] != "Thorbecke" {
		t.Errorf("records = %v", records)
	}
}

func TestFetchSectorKeepsAllWhenLocalFilterEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(recordsBody([]Record{{"NAAM": "Zonder gemeenteveld"}}))
	}))
	defer server.Close()

	records, err := NewClient(server.URL).FetchSector(context.Background(), "res", "Rotterdam")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("records = %v", records)
	}
}
