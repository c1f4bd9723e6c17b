package skill

import (
	"math"
	"strings"
)

const (
	HighSubstitutionRate = 0.8
	BaseSubstitutionRate = 0.4

	halfLifeNumerator = 5.0
	minHalfLifeYears  = 1.0
	maxHalfLifeYears  = 10.0
)

// repetitiveKeywords mark clerical or reporting work that automation absorbs first.
var repetitiveKeywords = []string{
	"data entry",
	"record",
	"typing",
	"copy",
	"routine",
	"excel",
	"report",
	"filing",
	"clerical",
	"documentation",
	"monitoring",
}

func SubstitutionRate(skillName string) float64 {
	if containsAny(strings.ToLower(skillName), repetitiveKeywords) {
		return HighSubstitutionRate
	}
	return BaseSubstitutionRate
}

// HalfLifeYears is 5/rate clamped to [1, 10] and rounded to one decimal.
func HalfLifeYears(rate float64) float64 {
	if rate <= 0 {
		return maxHalfLifeYears
	}
	v := halfLifeNumerator / rate
	if v < minHalfLifeYears {
		v = minHalfLifeYears
	}
	if v > maxHalfLifeYears {
		v = maxHalfLifeYears
	}
	return round1(v)
}

// ExtinctionRisk5yr maps a substitution rate onto a 0-100 score.
func ExtinctionRisk5yr(rate float64) float64 {
	return round1((rate*0.6 + 0.4) * 100)
}

func Derive(raw RawRecord) Record {
	rate := SubstitutionRate(raw.SkillName)
	return Record{
		SkillName:          raw.SkillName,
		ScaleID:            raw.ScaleID,
		Value:              raw.Value,
		AISubstitutionRate: rate,
		HalfLifeYears:      HalfLifeYears(rate),
		ExtinctionRisk5yr:  ExtinctionRisk5yr(rate),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
