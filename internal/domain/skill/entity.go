package skill

// RawRecord is one usable row of the source skills table.
type RawRecord struct {
	SkillName string
	ScaleID   string
	Value     float64
}

// Record is a derived row as persisted in the cleaned dataset.
type Record struct {
	SkillName          string  `json:"skill_name"`
	ScaleID            string  `json:"scale_id"`
	Value              float64 `json:"value"`
	AISubstitutionRate float64 `json:"ai_substitution_rate"`
	HalfLifeYears      float64 `json:"half_life_years"`
	ExtinctionRisk5yr  float64 `json:"extinction_risk_5yr"`
}

// CategorizedRecord is a Record served by the query API.
type CategorizedRecord struct {
	Record
	Category string `json:"category"`
}

func NewCategorizedRecord(r Record) CategorizedRecord {
	return CategorizedRecord{Record: r, Category: Categorize(r.SkillName)}
}
