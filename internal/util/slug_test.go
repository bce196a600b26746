package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"polish diacritics", "Ogłoszenia i zamówienia", "ogloszenia-i-zamowienia"},
		{"l with stroke", "Działalność", "dzialalnosc"},
		{"punctuation", "Adresy, telefony kontaktowe!", "adresy-telefony-kontaktowe"},
		{"multiple spaces", "a   b", "a-b"},
		{"leading trailing", " -x- ", "x"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"a", "abc-def", "rok-2024", "x9"}
	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}

	invalid := []string{"", "-abc", "abc-", "a--b", "Abc", "a b", "ż"}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestFormatSlugTitle(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"adresy-telefony-kontaktowe", "Adresy Telefony Kontaktowe"},
		{"psy", "Psy"},
		{"", ""},
		{"a--b", "A  B"},
	}

	for _, tt := range tests {
		if got := FormatSlugTitle(tt.input); got != tt.want {
			t.Errorf("FormatSlugTitle(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
