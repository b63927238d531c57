package nutrition

import (
	"sort"
	"strings"
	"time"
)

const (
	baseScore        = 50
	maxScore         = 100
	tagBonusPerTag   = 2
	maxTagBonus      = 10
	freshnessLongH   = 48
	freshnessShortH  = 24
)

// LifestyleTags are preferences a recipient can require on a donation.
var LifestyleTags = []string{"vegetarian", "vegan", "halal", "kosher", "organic"}

// AllergenTags mark contents a recipient must avoid.
var AllergenTags = []string{"gluten", "dairy", "nuts", "peanuts", "shellfish", "soy", "eggs", "fish"}

var categoryBonus = map[string]int{
	"fruits":     25,
	"vegetables": 25,
	"protein":    20,
	"grains":     15,
	"dairy":      10,
	"pantry":     5,
}

// Stricter diets imply broader ones. Kosher and halal stay distinct, they are
// separate standards with different requirements.
var dietaryHierarchy = map[string][]string{
	"vegan": {"vegetarian"},
}

// ValidTag reports whether tag belongs to the fixed vocabulary.
func ValidTag(tag string) bool {
	t := strings.ToLower(tag)
	for _, l := range LifestyleTags {
		if t == l {
			return true
		}
	}
	for _, a := range AllergenTags {
		if t == a {
			return true
		}
	}
	return false
}

// ValidTags reports whether every tag belongs to the fixed vocabulary.
func ValidTags(tags []string) bool {
	for _, tag := range tags {
		if !ValidTag(tag) {
			return false
		}
	}
	return true
}

// ExpandTags lowercases tags and adds implied lifestyle tags, so a vegan
// donation also satisfies a vegetarian preference.
func ExpandTags(tags []string) map[string]bool {
	expanded := make(map[string]bool, len(tags))
	for _, tag := range tags {
		expanded[strings.ToLower(tag)] = true
	}
	for tag := range expanded {
		for _, implied := range dietaryHierarchy[tag] {
			expanded[implied] = true
		}
	}
	return expanded
}

// ExpandTagList is ExpandTags flattened to a sorted slice. This is the form
// persisted to the jsonb column, which every reader decodes as an array.
func ExpandTagList(tags []string) []string {
	expanded := ExpandTags(tags)
	list := make([]string, 0, len(expanded))
	for tag := range expanded {
		list = append(list, tag)
	}
	sort.Strings(list)
	return list
}

// Compatible reports whether a donation's tags satisfy a user's dietary
// restrictions. Restrictions mix allergens (the donation must not contain
// them) with lifestyle preferences (the donation must carry them). An
// allergen hit always fails, regardless of lifestyle match.
func Compatible(restrictions, donationTags []string) bool {
	if len(restrictions) == 0 {
		return true
	}

	tags := ExpandTags(donationTags)

	allergens := make(map[string]bool, len(AllergenTags))
	for _, a := range AllergenTags {
		allergens[a] = true
	}

	for _, r := range restrictions {
		restriction := strings.ToLower(r)
		if allergens[restriction] {
			if tags[restriction] {
				return false
			}
			continue
		}
		if !tags[restriction] {
			return false
		}
	}
	return true
}

// Score computes the 0-100 nutrition quality score stored on a donation at
// creation time: category base, a freshness bonus tiered on time remaining
// until expiry, and a small bonus per dietary tag.
func Score(category string, expiry time.Time, tags []string, now time.Time) int {
	score := baseScore
	score += categoryBonus[strings.ToLower(category)]

	hoursUntilExpiry := expiry.Sub(now).Hours()
	if hoursUntilExpiry > freshnessLongH {
		score += 10
	} else if hoursUntilExpiry > freshnessShortH {
		score += 5
	}

	tagBonus := len(tags) * tagBonusPerTag
	if tagBonus > maxTagBonus {
		tagBonus = maxTagBonus
	}
	score += tagBonus

	if score > maxScore {
		return maxScore
	}
	if score < 0 {
		return 0
	}
	return score
}
