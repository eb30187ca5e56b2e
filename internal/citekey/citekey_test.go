package citekey

import (
	"testing"

	"github.com/krystophny/puby/internal/pub"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		p    pub.Publication
		want string
	}{
		{
			name: "surname year and first page",
			p: pub.Publication{
				Authors: []pub.Author{{GivenName: "John", FamilyName: "Smith"}},
				Year:    2023,
				Pages:   "100-110",
			},
			want: "Smith2023-100",
		},
		{
			name: "no pages",
			p: pub.Publication{
				Authors: []pub.Author{{FamilyName: "Smith"}},
				Year:    2023,
			},
			want: "Smith2023",
		},
		{
			name: "no year",
			p: pub.Publication{
				Authors: []pub.Author{{FamilyName: "Smith"}},
			},
			want: "SmithNoYear",
		},
		{
			name: "no authors",
			p:    pub.Publication{Year: 2023},
			want: "Unknown2023",
		},
		{
			name: "worst case",
			p:    pub.Publication{},
			want: "UnknownNoYear",
		},
		{
			name: "surname from comma display name",
			p: pub.Publication{
				Authors: []pub.Author{{Name: "Smith, John"}},
				Year:    2020,
			},
			want: "Smith2020",
		},
		{
			name: "surname from last word of display name",
			p: pub.Publication{
				Authors: []pub.Author{{Name: "John Q Smith"}},
				Year:    2020,
			},
			want: "Smith2020",
		},
		{
			name: "accents stripped by decomposition",
			p: pub.Publication{
				Authors: []pub.Author{{FamilyName: "Müller"}},
				Year:    2021,
			},
			want: "Muller2021",
		},
		{
			name: "sharp s transliterated",
			p: pub.Publication{
				Authors: []pub.Author{{FamilyName: "Weiß"}},
				Year:    2021,
			},
			want: "Weiss2021",
		},
		{
			name: "slashed o transliterated",
			p: pub.Publication{
				Authors: []pub.Author{{FamilyName: "Sørensen"}},
				Year:    2021,
			},
			want: "Sorensen2021",
		},
		{
			name: "hyphenated surname kept",
			p: pub.Publication{
				Authors: []pub.Author{{FamilyName: "Smith-Jones"}},
				Year:    2021,
			},
			want: "Smith-Jones2021",
		},
		{
			name: "non-latin surname falls back to Unknown",
			p: pub.Publication{
				Authors: []pub.Author{{FamilyName: "田中"}},
				Year:    2021,
			},
			want: "Unknown2021",
		},
		{
			name: "single page",
			p: pub.Publication{
				Authors: []pub.Author{{FamilyName: "Smith"}},
				Year:    2023,
				Pages:   "e0123",
			},
			want: "Smith2023-e0123",
		},
		{
			name: "textual page range",
			p: pub.Publication{
				Authors: []pub.Author{{FamilyName: "Smith"}},
				Year:    2023,
				Pages:   "100 to 110",
			},
			want: "Smith2023-100",
		},
		{
			name: "em dash page range",
			p: pub.Publication{
				Authors: []pub.Author{{FamilyName: "Smith"}},
				Year:    2023,
				Pages:   "55—60",
			},
			want: "Smith2023-55",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.p)
			if got != tt.want {
				t.Errorf("Generate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	p := pub.Publication{
		Authors: []pub.Author{{FamilyName: "Smith"}},
		Year:    2023,
		Pages:   "100-110",
	}

	existing := map[string]bool{}

	first := Resolve(p, existing)
	if first != "Smith2023-100" {
		t.Fatalf("first key = %q, want Smith2023-100", first)
	}
	existing[first] = true

	second := Resolve(p, existing)
	if second != "Smith2023-100a" {
		t.Errorf("second key = %q, want Smith2023-100a", second)
	}
	existing[second] = true

	third := Resolve(p, existing)
	if third != "Smith2023-100b" {
		t.Errorf("third key = %q, want Smith2023-100b", third)
	}
}

func TestResolveExhaustedSuffixes(t *testing.T) {
	p := pub.Publication{
		Authors: []pub.Author{{FamilyName: "Smith"}},
		Year:    2023,
	}

	existing := map[string]bool{"Smith2023": true}
	for c := 'a'; c <= 'z'; c++ {
		existing["Smith2023"+string(c)] = true
	}

	got := Resolve(p, existing)
	if got != "Smith2023z" {
		t.Errorf("Resolve() = %q, want Smith2023z", got)
	}
}
