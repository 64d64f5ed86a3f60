package textnorm

import "testing"

func TestLevenshtein(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b   string
		expect int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"engineer", "enginer", 1},
		{"same", "same", 0},
	}

	for _, tt := range tests {
		if got := Levenshtein(tt.a, tt.b); got != tt.expect {
			t.Fatalf("Levenshtein(%q, %q) = %d, expected %d", tt.a, tt.b, got, tt.expect)
		}
	}
}

func TestBestMatch(t *testing.T) {
	t.Parallel()

	positions := []string{"AI Engineer", "Backend Developer", "Business Analyst"}

	tests := []struct {
		name       string
		input      string
		candidates []string
		expect     string
	}{
		{
			name:       "exact self match",
			input:      "AI Engineer",
			candidates: positions,
			expect:     "AI Engineer",
		},
		{
			name:       "single typo accepted",
			input:      "ai enginer",
			candidates: positions,
			expect:     "AI Engineer",
		},
		{
			name:       "partial typing matches by containment",
			input:      "engine",
			candidates: positions,
			expect:     "AI Engineer",
		},
		{
			name:       "diacritics ignored",
			input:      "backend đeveloper",
			candidates: positions,
			expect:     "Backend Developer",
		},
		{
			name:       "unrelated input rejected",
			input:      "xyz completely unrelated",
			candidates: positions,
			expect:     "",
		},
		{
			name:       "short input stays strict",
			input:      "zz",
			candidates: positions,
			expect:     "",
		},
		{
			name:       "empty input",
			input:      "   ",
			candidates: positions,
			expect:     "",
		},
		{
			name:       "first candidate wins distance tie",
			input:      "az",
			candidates: []string{"ab", "ad"},
			expect:     "ab",
		},
		{
			name:       "threshold counts characters not bytes",
			input:      "đabc",
			candidates: []string{"đaxy"},
			expect:     "",
		},
		{
			name:       "multibyte input within character budget",
			input:      "đabc",
			candidates: []string{"đabx"},
			expect:     "đabx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := BestMatch(tt.input, tt.candidates); got != tt.expect {
				t.Fatalf("BestMatch(%q) = %q, expected %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestBestMatchSelfMatchProperty(t *testing.T) {
	t.Parallel()

	candidates := []string{"AI Engineer", "Backend Developer", "Tester", "Kỹ sư dữ liệu"}
	for _, c := range candidates {
		if got := BestMatch(c, candidates); got != c {
			t.Fatalf("self match failed for %q: got %q", c, got)
		}
	}
}
