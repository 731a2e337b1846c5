package main

import "testing"

func TestResolveTitle(t *testing.T) {
	aliases := DefaultAliases()

	tests := []struct {
		input    string
		expected string
	}{
		{"How Do You Do?", "How Do You?"},
		{"High and Dry", "High & Dry"},
		{"Packt Like Sardines in a Crushd Tin Box", "Packt Like Sardines in a Crushed Tin Box"},
		{"Pulk/Pull Revolving Doors", "Pull / Pulk Revolving Doors"},
		{"Morning Bell/Amnesiac", "Amnesiac / Morning Bell"},
		{"Creep", "Creep"},
		{"high and dry", "high and dry"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := aliases.ResolveTitle(tt.input); got != tt.expected {
				t.Errorf("ResolveTitle(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}

	if len(aliases) != 5 {
		t.Errorf("DefaultAliases() has %d entries, want 5", len(aliases))
	}
}

func TestAliasTableHas(t *testing.T) {
	aliases := AliasTable{"A": "B"}

	if !aliases.Has("A") {
		t.Error("Has(\"A\") = false, want true")
	}
	if aliases.Has("B") {
		t.Error("Has(\"B\") = true, want false")
	}
}
