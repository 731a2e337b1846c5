package main

// AliasTable rewrites table titles that differ from the lyrics site naming
type AliasTable map[string]string

// DefaultAliases are the known mismatches between the discography and the site
func DefaultAliases() AliasTable {
	return AliasTable{
		"How Do You Do?":                          "How Do You?",
		"High and Dry":                            "High & Dry",
		"Packt Like Sardines in a Crushd Tin Box": "Packt Like Sardines in a Crushed Tin Box",
		"Pulk/Pull Revolving Doors":               "Pull / Pulk Revolving Doors",
		"Morning Bell/Amnesiac":                   "Amnesiac / Morning Bell",
	}
}

// ResolveTitle returns the canonical title for raw, or raw if it has no alias
func (a AliasTable) ResolveTitle(raw string) string {
	if canonical, ok := a[raw]; ok {
		return canonical
	}
	return raw
}

// Has reports whether raw has an alias
func (a AliasTable) Has(raw string) bool {
	_, ok := a[raw]
	return ok
}
