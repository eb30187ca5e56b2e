package source

import (
	"reflect"
	"testing"

	"github.com/krystophny/puby/internal/pub"
)

func TestParseCommaSeparatedAuthors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []pub.Author
	}{
		{
			name:  "scholar byline",
			input: "J Smith, M Johnson, K Lee",
			want: []pub.Author{
				{Name: "J Smith", GivenName: "J", FamilyName: "Smith"},
				{Name: "M Johnson", GivenName: "M", FamilyName: "Johnson"},
				{Name: "K Lee", GivenName: "K", FamilyName: "Lee"},
			},
		},
		{
			name:  "separator words skipped",
			input: "J Smith, and, M Johnson",
			want: []pub.Author{
				{Name: "J Smith", GivenName: "J", FamilyName: "Smith"},
				{Name: "M Johnson", GivenName: "M", FamilyName: "Johnson"},
			},
		},
		{
			name:  "et al dropped",
			input: "J Smith, et al.",
			want: []pub.Author{
				{Name: "J Smith", GivenName: "J", FamilyName: "Smith"},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommaSeparatedAuthors(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCommaSeparatedAuthors(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBibTeXAuthors(t *testing.T) {
	got := ParseBibTeXAuthors("Smith, John and Lee, Kim M")
	want := []pub.Author{
		{Name: "John Smith", GivenName: "John", FamilyName: "Smith"},
		{Name: "Kim M Lee", GivenName: "Kim M", FamilyName: "Lee"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseBibTeXAuthors() = %+v, want %+v", got, want)
	}
}

func TestParsePlainAuthorNames(t *testing.T) {
	got := ParsePlainAuthorNames([]string{"John Q Smith", "", "Cher"})
	want := []pub.Author{
		{Name: "John Q Smith", GivenName: "John Q", FamilyName: "Smith"},
		{Name: "Cher", FamilyName: "Cher"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParsePlainAuthorNames() = %+v, want %+v", got, want)
	}
}

func TestStructuredAuthor(t *testing.T) {
	tests := []struct {
		name   string
		first  string
		last   string
		full   string
		want   pub.Author
		wantOK bool
	}{
		{
			name:   "first and last",
			first:  "John",
			last:   "Smith",
			want:   pub.Author{Name: "John Smith", GivenName: "John", FamilyName: "Smith"},
			wantOK: true,
		},
		{
			name:   "last only",
			last:   "Smith",
			want:   pub.Author{Name: "Smith", FamilyName: "Smith"},
			wantOK: true,
		},
		{
			name:   "full name fallback",
			full:   "Smith, John",
			want:   pub.Author{Name: "John Smith", GivenName: "John", FamilyName: "Smith"},
			wantOK: true,
		},
		{
			name:   "nothing usable",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StructuredAuthor(tt.first, tt.last, tt.full)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StructuredAuthor() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
