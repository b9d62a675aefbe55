package nutrition

import (
	"strings"
)

// AllergenKeywords maps each allergy identifier to the lower-case
// keywords screened against food text. Matching is substring-based and
// deliberately conservative: false positives are accepted as a safety
// bias, false negatives are not.
var AllergenKeywords = map[string][]string{
	"peanuts":   {"peanut", "groundnut"},
	"tree_nuts": {"almond", "cashew", "walnut", "pecan", "pistachio", "hazelnut", "macadamia", "brazil nut", "nut"},
	"dairy":     {"milk", "cheese", "butter", "cream", "yogurt", "whey", "casein", "lactose", "dairy"},
	"eggs":      {"egg", "mayonnaise", "meringue", "albumin"},
	"wheat":     {"wheat", "bread", "pasta", "flour", "cracker", "cereal"},
	"gluten":    {"gluten", "wheat", "barley", "rye", "malt", "bread", "pasta"},
	"soy":       {"soy", "tofu", "edamame", "tempeh", "miso"},
	"fish":      {"fish", "salmon", "tuna", "cod", "tilapia", "anchovy", "sardine"},
	"shellfish": {"shrimp", "crab", "lobster", "prawn", "oyster", "mussel", "clam", "scallop", "shellfish"},
	"sesame":    {"sesame", "tahini"},
	"lactose":   {"milk", "lactose", "cream", "ice cream", "cheese"},
}

// MatchAllergens screens a food's name and category against the user's
// declared allergy identifiers. Results are de-duplicated and ordered
// first-match-wins by the order of userAllergyIDs. An empty allergy set
// short-circuits to nil without scanning.
func MatchAllergens(food Food, userAllergyIDs []string) []string {
	if len(userAllergyIDs) == 0 {
		return nil
	}

	text := strings.ToLower(food.Name)
	if food.Category != "" {
		text += " " + strings.ToLower(food.Category)
	}

	var matched []string
	seen := make(map[string]bool, len(userAllergyIDs))
	for _, allergyID := range userAllergyIDs {
		if seen[allergyID] {
			continue
		}
		for _, keyword := range AllergenKeywords[allergyID] {
			if strings.Contains(text, keyword) {
				matched = append(matched, allergyID)
				seen[allergyID] = true
				break
			}
		}
	}
	return matched
}
