package skill

import "strings"

const (
	CategoryCognitive       = "Cognitive"
	CategorySocial          = "Social"
	CategoryTechnical       = "Technical"
	CategoryRoutineClerical = "Routine / Clerical"
	CategoryOther           = "Other"
)

type categoryRule struct {
	category string
	keywords []string
}

// Evaluated in order; the first rule with a matching keyword wins.
var categoryRules = []categoryRule{
	{category: CategoryCognitive, keywords: []string{"writing", "reading", "mathematics", "reasoning", "analysis"}},
	{category: CategorySocial, keywords: []string{"speaking", "listening", "negotiation", "social"}},
	{category: CategoryTechnical, keywords: []string{"programming", "technology", "systems", "operations"}},
	{category: CategoryRoutineClerical, keywords: []string{"clerical", "record", "typing", "data", "copy", "routine"}},
}

func Categorize(skillName string) string {
	n := strings.ToLower(skillName)
	for _, rule := range categoryRules {
		if containsAny(n, rule.keywords) {
			return rule.category
		}
	}
	return CategoryOther
}
