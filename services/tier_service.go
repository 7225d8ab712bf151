package services

import (
	"strings"

	config "github.com/dalewoodman1994/100-percent/configs"
)

// Tier is a country's recognizability band. Tier 1 flags are globally
// iconic, Tier 2 moderately recognizable, Tier 3 everything else.
type Tier int

const (
	Tier1 Tier = iota + 1
	Tier2
	Tier3
)

// TierClassifier answers which tier a country code belongs to, using the
// static tables from the quiz config. Codes listed nowhere are Tier 3.
type TierClassifier struct {
	byCode map[string]Tier
}

// NewTierClassifier builds the lookup from the configured tables. If a code
// accidentally appears in more than one list, the easier tier wins
// (Tier 1 over Tier 2 over Tier 3).
func NewTierClassifier(tables config.TierTables) *TierClassifier {
	byCode := make(map[string]Tier, len(tables.Tier1)+len(tables.Tier2)+len(tables.Tier3))

	// Insert hardest first so easier tiers overwrite on overlap.
	for _, code := range tables.Tier3 {
		byCode[normalizeCode(code)] = Tier3
	}
	for _, code := range tables.Tier2 {
		byCode[normalizeCode(code)] = Tier2
	}
	for _, code := range tables.Tier1 {
		byCode[normalizeCode(code)] = Tier1
	}
	delete(byCode, "")

	return &TierClassifier{byCode: byCode}
}

// TierOf returns the tier for a country code.
func (t *TierClassifier) TierOf(code string) Tier {
	if tier, ok := t.byCode[normalizeCode(code)]; ok {
		return tier
	}
	return Tier3
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
