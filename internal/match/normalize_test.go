package match

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "lowercases",
			input: "Deep Learning for Vision",
			want:  "deep learning for vision",
		},
		{
			name:  "latex command keeps inner text",
			input: `\textbf{Deep} Learning`,
			want:  "deep learning",
		},
		{
			name:  "nested latex commands unwrap fully",
			input: `\emph{\textbf{attention}} is all you need`,
			want:  "attention is all you need",
		},
		{
			name:  "bare braces dropped",
			input: "{CNN} models for {NLP}",
			want:  "cnn models for nlp",
		},
		{
			name:  "bare latex command removed",
			input: `\alpha decay rates`,
			want:  "decay rates",
		},
		{
			name:  "html entities become spaces",
			input: "signal &amp; noise",
			want:  "signal noise",
		},
		{
			name:  "html tags become spaces",
			input: "<i>C. elegans</i> development",
			want:  "c elegans development",
		},
		{
			name:  "punctuation replaced by spaces",
			input: "Matching: a case study!",
			want:  "matching a case study",
		},
		{
			name:  "hyphen and underscore survive",
			input: "self-attention in gene_expression data",
			want:  "self-attention in gene_expression data",
		},
		{
			name:  "unicode letters survive",
			input: "Naïve Bayes für Anfänger",
			want:  "naïve bayes für anfänger",
		},
		{
			name:  "whitespace collapsed and trimmed",
			input: "  too   many \t spaces \n ",
			want:  "too many spaces",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"Deep Learning for Vision",
		`\textbf{Deep} Learning & More!`,
		"<b>HTML</b> &amp; LaTeX: {mixed}",
	}
	for _, input := range inputs {
		once := NormalizeText(input)
		twice := NormalizeText(once)
		if once != twice {
			t.Errorf("NormalizeText not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
