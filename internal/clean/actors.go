package clean

import (
	"regexp"
	"strings"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

// PolityPattern assigns a role to actors whose name matches any alias
type PolityPattern struct {
	Role    model.ActorRole
	Aliases []string
}

// polityPatterns is scanned in order; colonial powers precede empires so that
// "British Empire" is a colonial power and empires precede kingdoms so that
// "Sikh Empire" is an empire
var polityPatterns = []PolityPattern{
	{
		Role: model.RoleColonialPower,
		Aliases: []string{
			"east india company", "british", "crown rule", "portuguese", "dutch",
			"french", "danish", "great britain", "united kingdom",
		},
	},
	{
		Role: model.RoleEmpire,
		Aliases: []string{
			"empire", "sultanate", "caliphate", "mughal", "durrani", "timurid",
			"ghaznavid", "ghurid", "maurya", "gupta", "vijayanagara",
		},
	},
	{
		Role: model.RoleKingdom,
		Aliases: []string{
			"kingdom", "principality", "nawab", "nizam", "raja", "rajput",
			"confederacy", "dynasty", "princely state", "khanate", "emirate",
		},
	},
	{
		Role: model.RoleRebelGroup,
		Aliases: []string{
			"rebel", "insurgent", "mutineer", "militant", "sepoy", "mukti bahini",
			"liberation", "separatist", "naxal", "maoist", "tigers", "mujahideen", "taliban",
		},
	},
	{
		Role: model.RoleState,
		Aliases: []string{
			"india", "pakistan", "bangladesh", "afghanistan", "sri lanka", "nepal",
			"bhutan", "china", "republic", "government", "dominion", "soviet union",
		},
	},
}

type compiledPolity struct {
	role    model.ActorRole
	pattern *regexp.Regexp
}

var compiledPolities = compilePolities(polityPatterns)

func compilePolities(patterns []PolityPattern) []compiledPolity {
	out := make([]compiledPolity, 0, len(patterns))
	for _, p := range patterns {
		quoted := make([]string, len(p.Aliases))
		for i, a := range p.Aliases {
			quoted[i] = regexp.QuoteMeta(a)
		}
		out = append(out, compiledPolity{
			role:    p.Role,
			pattern: regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)`),
		})
	}
	return out
}

var actorSplitRe = regexp.MustCompile(`(?i)\s*(?:;|,|\n|\bvs\.?\s|\bversus\b|\band\b)\s*`)

// InferActorRole classifies an actor name against the polity table
func InferActorRole(name string) model.ActorRole {
	lower := strings.ToLower(name)
	for _, p := range compiledPolities {
		if p.pattern.MatchString(lower) {
			return p.role
		}
	}
	return model.RoleOther
}

// ParseActors splits belligerents text into at most limit distinct actors, in order of appearance
func ParseActors(text string, limit int) []model.Actor {
	actors := []model.Actor{}
	if strings.TrimSpace(text) == "" || limit <= 0 {
		return actors
	}

	seen := make(map[string]bool)
	for _, part := range actorSplitRe.Split(text, -1) {
		name := strings.Trim(strings.TrimSpace(part), ".:-–")
		name = strings.TrimSpace(name)
		if len(name) < 2 {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		actors = append(actors, model.Actor{
			Name: name,
			Role: InferActorRole(name),
		})
		if len(actors) == limit {
			break
		}
	}
	return actors
}
