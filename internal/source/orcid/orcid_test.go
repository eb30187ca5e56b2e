package orcid

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewExtractsID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  string
		wantErr bool
	}{
		{
			name:   "profile URL",
			input:  "https://orcid.org/0000-0002-1825-0097",
			wantID: "0000-0002-1825-0097",
		},
		{
			name:   "bare ID",
			input:  "0000-0002-1825-0097",
			wantID: "0000-0002-1825-0097",
		},
		{
			name:   "checksum X",
			input:  "https://orcid.org/0000-0002-1825-009X",
			wantID: "0000-0002-1825-009X",
		},
		{
			name:    "no ID present",
			input:   "https://orcid.org/profile",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := New(tt.input, zerolog.Nop())
			if tt.wantErr {
				if err == nil {
					t.Fatalf("New(%q) succeeded, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) error: %v", tt.input, err)
			}
			if src.ID() != tt.wantID {
				t.Errorf("ID() = %q, want %q", src.ID(), tt.wantID)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	const id = "0000-0002-1825-0097"

	mux := http.NewServeMux()
	mux.HandleFunc("/"+id+"/works", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"group": [
				{"work-summary": [{"put-code": 1}, {"put-code": 2}]},
				{"work-summary": [{"put-code": 3}]},
				{"work-summary": []}
			]
		}`)
	})
	mux.HandleFunc("/"+id+"/work/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"title": {"title": {"value": "Record Linkage at Scale"}},
			"journal-title": {"value": "Scientometrics"},
			"publication-date": {"year": {"value": "2023"}},
			"external-ids": {"external-id": [
				{"external-id-type": "issn", "external-id-value": "1234-5678"},
				{"external-id-type": "doi", "external-id-value": "10.1000/xyz"}
			]},
			"contributors": {"contributor": [
				{"credit-name": {"value": "John Smith"}},
				{"credit-name": {"value": "Kim Lee"}}
			]}
		}`)
	})
	mux.HandleFunc("/"+id+"/work/3", func(w http.ResponseWriter, r *http.Request) {
		// No title: the work is skipped.
		fmt.Fprint(w, `{"journal-title": {"value": "Untitled Venue"}}`)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	src, err := New(id, zerolog.Nop(), WithBaseURL(server.URL))
	if err != nil {
		t.Fatal(err)
	}

	pubs, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(pubs) != 1 {
		t.Fatalf("len = %d, want 1", len(pubs))
	}

	p := pubs[0]
	if p.Title != "Record Linkage at Scale" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Year != 2023 {
		t.Errorf("Year = %d, want 2023", p.Year)
	}
	if p.DOI != "10.1000/xyz" {
		t.Errorf("DOI = %q, want 10.1000/xyz", p.DOI)
	}
	if p.Journal != "Scientometrics" {
		t.Errorf("Journal = %q", p.Journal)
	}
	if len(p.Authors) != 2 || p.Authors[0].FamilyName != "Smith" {
		t.Errorf("Authors = %+v", p.Authors)
	}
	if p.Source != "ORCID" {
		t.Errorf("Source = %q", p.Source)
	}
}

func TestFetchWorksError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	src, err := New("0000-0002-1825-0097", zerolog.Nop(), WithBaseURL(server.URL))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := src.Fetch(context.Background()); err == nil {
		t.Error("expected error on failing works endpoint")
	}
}
