package clean

import (
	"regexp"
	"strings"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

type typeRule struct {
	conflictType model.ConflictType
	pattern      *regexp.Regexp
}

// keywordRule matches any keyword at a word start, so "riots" and "invaded"
// hit while "patriot" and "Peshawar" do not
func keywordRule(t model.ConflictType, keywords ...string) typeRule {
	return typeRule{
		conflictType: t,
		pattern:      regexp.MustCompile(`\b(?:` + strings.Join(keywords, "|") + `)`),
	}
}

// typeRules is scanned in order and the first matching group wins
var typeRules = []typeRule{
	keywordRule(model.ConflictMassacre, "massacre", "pogrom", "slaughter"),
	keywordRule(model.ConflictRiot, "riot"),
	keywordRule(model.ConflictFamine, "famine", "starvation"),
	keywordRule(model.ConflictPartitionEvent, "partition"),
	keywordRule(model.ConflictUprising, "uprising", "revolt", "rebellion", "mutiny"),
	keywordRule(model.ConflictInvasion, "invasion", "invaded"),
	keywordRule(model.ConflictImperialCampaign, "campaign"),
	keywordRule(model.ConflictCivil, "civil war"),
	keywordRule(model.ConflictCommunalViolence, "communal", "sectarian"),
	keywordRule(model.ConflictWar, "war", "battle", "siege"),
}

// InferConflictType classifies an event from its title and description
func InferConflictType(title, description string) model.ConflictType {
	text := strings.ToLower(title + " " + description)
	for _, rule := range typeRules {
		if rule.pattern.MatchString(text) {
			return rule.conflictType
		}
	}
	return model.ConflictOther
}

// Scale thresholds on the best casualty estimate
const (
	subcontinentalCasualties = 100_000
	regionalCasualties       = 1_000
	regionalLocations        = 3
)

// InferConflictScale grades reach from the best casualty estimate, falling back to location count
func InferConflictScale(bestEstimate *int, locationCount int) model.ConflictScale {
	if bestEstimate != nil {
		switch {
		case *bestEstimate > subcontinentalCasualties:
			return model.ScaleSubcontinental
		case *bestEstimate > regionalCasualties:
			return model.ScaleRegional
		}
	}
	if locationCount > regionalLocations {
		return model.ScaleRegional
	}
	return model.ScaleLocal
}
