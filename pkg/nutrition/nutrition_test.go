package nutrition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScoreBounds(t *testing.T) {
	now := time.Now()

	categories := []string{"fruits", "vegetables", "grains", "protein", "dairy", "prepared", "pantry", "beverages", "other", ""}
	expiries := []time.Time{
		now.Add(time.Hour),
		now.Add(30 * time.Hour),
		now.Add(72 * time.Hour),
		now.Add(-time.Hour),
	}
	tagSets := [][]string{
		nil,
		{"vegan"},
		{"vegetarian", "vegan", "halal", "kosher", "organic", "gluten", "dairy"},
	}

	for _, cat := range categories {
		for _, exp := range expiries {
			for _, tags := range tagSets {
				score := Score(cat, exp, tags, now)
				require.GreaterOrEqual(t, score, 0)
				require.LessOrEqual(t, score, 100)
			}
		}
	}
}

func TestScoreCategoryAndFreshness(t *testing.T) {
	now := time.Now()

	// fruits: 50 base + 25 category + 10 freshness (>48h)
	require.Equal(t, 85, Score("fruits", now.Add(72*time.Hour), nil, now))
	// fruits expiring within 24-48h get the smaller freshness bonus
	require.Equal(t, 80, Score("fruits", now.Add(30*time.Hour), nil, now))
	// no freshness bonus under 24h
	require.Equal(t, 75, Score("fruits", now.Add(2*time.Hour), nil, now))
	// unknown category contributes nothing
	require.Equal(t, 50, Score("prepared", now.Add(time.Hour), nil, now))
}

func TestScoreTagBonusCapped(t *testing.T) {
	now := time.Now()
	expiry := now.Add(2 * time.Hour)

	base := Score("other", expiry, nil, now)
	require.Equal(t, base+4, Score("other", expiry, []string{"vegan", "organic"}, now))

	manyTags := []string{"vegetarian", "vegan", "halal", "kosher", "organic", "gluten", "soy"}
	require.Equal(t, base+10, Score("other", expiry, manyTags, now))
}

func TestScoreClampedAtHundred(t *testing.T) {
	now := time.Now()
	manyTags := []string{"vegetarian", "vegan", "halal", "kosher", "organic", "gluten"}

	// 50 + 25 + 10 + 10 = 95, still under the cap
	require.Equal(t, 95, Score("fruits", now.Add(72*time.Hour), manyTags, now))
}

func TestCompatibleNoRestrictions(t *testing.T) {
	require.True(t, Compatible(nil, []string{"gluten", "dairy"}))
	require.True(t, Compatible([]string{}, nil))
}

func TestCompatibleAllergenAlwaysWins(t *testing.T) {
	// donation matches the lifestyle preference but contains the allergen
	restrictions := []string{"vegetarian", "nuts"}
	require.False(t, Compatible(restrictions, []string{"vegetarian", "nuts"}))

	// allergen absent, lifestyle present
	require.True(t, Compatible(restrictions, []string{"vegetarian"}))
}

func TestCompatibleLifestyleRequired(t *testing.T) {
	require.False(t, Compatible([]string{"halal"}, []string{"vegetarian"}))
	require.True(t, Compatible([]string{"halal"}, []string{"halal", "vegetarian"}))
}

func TestCompatibleVeganImpliesVegetarian(t *testing.T) {
	require.True(t, Compatible([]string{"vegetarian"}, []string{"vegan"}))
	// the reverse does not hold
	require.False(t, Compatible([]string{"vegan"}, []string{"vegetarian"}))
}

func TestCompatibleCaseInsensitive(t *testing.T) {
	require.False(t, Compatible([]string{"Nuts"}, []string{"NUTS"}))
	require.True(t, Compatible([]string{"Vegan"}, []string{"VEGAN"}))
}

func TestValidTags(t *testing.T) {
	require.True(t, ValidTags([]string{"vegan", "Gluten", "kosher"}))
	require.False(t, ValidTags([]string{"vegan", "spicy"}))
	require.True(t, ValidTags(nil))
}

func TestExpandTags(t *testing.T) {
	expanded := ExpandTags([]string{"Vegan", "halal"})
	require.True(t, expanded["vegan"])
	require.True(t, expanded["vegetarian"])
	require.True(t, expanded["halal"])
	require.False(t, expanded["kosher"])
}

func TestExpandTagList(t *testing.T) {
	require.Equal(t, []string{"halal", "vegan", "vegetarian"}, ExpandTagList([]string{"Vegan", "halal"}))
	require.Equal(t, []string{"organic"}, ExpandTagList([]string{"organic"}))
	require.Empty(t, ExpandTagList(nil))
}
