package pub

import "testing"

func TestPublicationString(t *testing.T) {
	tests := []struct {
		name string
		p    Publication
		want string
	}{
		{
			name: "full citation",
			p: Publication{
				Title:   "Matching records",
				Authors: []Author{{GivenName: "John", FamilyName: "Smith"}},
				Year:    2023,
				Journal: "Scientometrics",
				DOI:     "10.1000/xyz",
			},
			want: "Smith, John (2023). Matching records. Scientometrics. DOI: 10.1000/xyz",
		},
		{
			name: "no year no journal",
			p: Publication{
				Title:   "Matching records",
				Authors: []Author{{Name: "John Smith"}},
			},
			want: "John Smith. Matching records.",
		},
		{
			name: "four authors truncate to et al",
			p: Publication{
				Title: "Big collaboration",
				Authors: []Author{
					{Name: "A One"}, {Name: "B Two"}, {Name: "C Three"}, {Name: "D Four"},
				},
				Year: 2020,
			},
			want: "A One, B Two, C Three et al. (2020). Big collaboration.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.String()
			if got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthorString(t *testing.T) {
	tests := []struct {
		name   string
		author Author
		want   string
	}{
		{
			name:   "structured name",
			author: Author{GivenName: "John", FamilyName: "Smith"},
			want:   "Smith, John",
		},
		{
			name:   "display name only",
			author: Author{Name: "The ATLAS Collaboration"},
			want:   "The ATLAS Collaboration",
		},
		{
			name:   "family name only",
			author: Author{Name: "Smith", FamilyName: "Smith"},
			want:   "Smith",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.author.String()
			if got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPublicationMatches(t *testing.T) {
	tests := []struct {
		name      string
		p         Publication
		other     Publication
		threshold float64
		want      bool
	}{
		{
			name:      "equal DOIs match",
			p:         Publication{Title: "A", DOI: "10.1000/xyz"},
			other:     Publication{Title: "Totally different", DOI: "10.1000/XYZ"},
			threshold: 0.8,
			want:      true,
		},
		{
			name:      "unequal DOIs never match",
			p:         Publication{Title: "Same title", DOI: "10.1000/a"},
			other:     Publication{Title: "Same title", DOI: "10.1000/b"},
			threshold: 0.8,
			want:      false,
		},
		{
			name:      "identical titles without DOIs",
			p:         Publication{Title: "Record linkage at scale", Year: 2020},
			other:     Publication{Title: "Record Linkage at Scale!", Year: 2020},
			threshold: 0.8,
			want:      true,
		},
		{
			name:      "year mismatch blocks title match",
			p:         Publication{Title: "Record linkage at scale", Year: 2020},
			other:     Publication{Title: "Record linkage at scale", Year: 2021},
			threshold: 0.8,
			want:      false,
		},
		{
			name:      "unknown year does not block",
			p:         Publication{Title: "Record linkage at scale"},
			other:     Publication{Title: "Record linkage at scale", Year: 2021},
			threshold: 0.8,
			want:      true,
		},
		{
			name:      "missing title never matches",
			p:         Publication{Year: 2020},
			other:     Publication{Title: "Record linkage at scale", Year: 2020},
			threshold: 0.8,
			want:      false,
		},
		{
			name:      "length penalty keeps subtitle variant below threshold",
			p:         Publication{Title: "Record linkage"},
			other:     Publication{Title: "Record linkage at scale in citation databases"},
			threshold: 0.8,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.Matches(tt.other, tt.threshold)
			if got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
			// The relation is symmetric.
			if rev := tt.other.Matches(tt.p, tt.threshold); rev != got {
				t.Errorf("asymmetric: Matches reversed = %v", rev)
			}
		})
	}
}
