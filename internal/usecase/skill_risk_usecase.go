package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"

	"skill-radar/internal/domain/skill"

	"go.uber.org/zap"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const (
	DefaultListLimit = 20
	DefaultRiskLimit = 10
	MaxLookupResults = 5
)

// SkillLookup is the result of a name search. Count is the full match count;
// Skills holds at most MaxLookupResults of them.
type SkillLookup struct {
	Query  string                    `json:"query"`
	Count  int                       `json:"count"`
	Skills []skill.CategorizedRecord `json:"skills"`
}

type CategoryStat struct {
	Category string  `json:"category"`
	Mean     float64 `json:"mean"`
	Count    int     `json:"count"`
}

type SkillRiskUsecase interface {
	ListSkills(limit int) []skill.CategorizedRecord
	FindByName(ctx context.Context, name string) (SkillLookup, error)
	HighRisk(limit int) []skill.CategorizedRecord
	LowRisk(limit int) []skill.CategorizedRecord
	CategoryStats() []CategoryStat
	Len() int
	Fingerprint() string
}

type lookupEntry struct {
	Count  int                       `json:"count"`
	Skills []skill.CategorizedRecord `json:"skills"`
}

// SkillRisk serves read-only views over a table fixed at construction. All
// derived orderings are computed once, so methods are safe for concurrent use.
type SkillRisk struct {
	records     []skill.CategorizedRecord
	byRiskDesc  []skill.CategorizedRecord
	byRiskAsc   []skill.CategorizedRecord
	stats       []CategoryStat
	fingerprint string

	cache  SearchCache
	logger *zap.Logger
}

func NewSkillRiskUsecase(records []skill.Record, cache SearchCache, logger *zap.Logger) *SkillRisk {
	if logger == nil {
		logger = zap.NewNop()
	}

	rows := make([]skill.CategorizedRecord, 0, len(records))
	for _, r := range records {
		rows = append(rows, skill.NewCategorizedRecord(r))
	}

	// Both risk views keep table order among equal scores.
	asc := slices.Clone(rows)
	slices.SortStableFunc(asc, byRisk)
	desc := slices.Clone(rows)
	slices.SortStableFunc(desc, func(a, b skill.CategorizedRecord) int {
		return byRisk(b, a)
	})

	u := &SkillRisk{
		records:    rows,
		byRiskDesc: desc,
		byRiskAsc:  asc,
		stats:      categoryStats(rows),
		cache:      cache,
		logger:     logger.With(zap.String("component", "catalog")),
	}

	fp, err := DatasetFingerprint(records)
	if err != nil {
		// Without a fingerprint, keys would not change with the data.
		u.logger.Warn("lookup cache disabled", zap.Error(err))
		u.cache = nil
	}
	u.fingerprint = fp
	u.logger.Info("catalog loaded", zap.Int("rows", len(rows)), zap.Int("categories", len(u.stats)))
	return u
}

func (u *SkillRisk) Len() int {
	return len(u.records)
}

// Fingerprint identifies the loaded table; empty when it could not be hashed.
func (u *SkillRisk) Fingerprint() string {
	return u.fingerprint
}

func (u *SkillRisk) ListSkills(limit int) []skill.CategorizedRecord {
	return head(u.records, limit)
}

func (u *SkillRisk) HighRisk(limit int) []skill.CategorizedRecord {
	return head(u.byRiskDesc, limit)
}

func (u *SkillRisk) LowRisk(limit int) []skill.CategorizedRecord {
	return head(u.byRiskAsc, limit)
}

func (u *SkillRisk) CategoryStats() []CategoryStat {
	return slices.Clone(u.stats)
}

// FindByName matches name case-insensitively as a substring of skill_name.
// Rows without a name never match. Only an empty name is rejected.
func (u *SkillRisk) FindByName(ctx context.Context, name string) (SkillLookup, error) {
	if name == "" {
		return SkillLookup{}, ErrInvalidInput
	}

	key := ""
	if u.cache != nil {
		key = SkillLookupCacheKey(u.fingerprint, name)
		var cached lookupEntry
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			u.logger.Debug("lookup cache hit", zap.String("key", key))
			return SkillLookup{Query: name, Count: cached.Count, Skills: cached.Skills}, nil
		}
		u.logger.Debug("lookup cache miss", zap.String("key", key))
	}

	needle := strings.ToLower(name)
	count := 0
	matches := make([]skill.CategorizedRecord, 0, MaxLookupResults)
	for _, r := range u.records {
		if r.SkillName == "" || !strings.Contains(strings.ToLower(r.SkillName), needle) {
			continue
		}
		count++
		if len(matches) < MaxLookupResults {
			matches = append(matches, r)
		}
	}
	if count == 0 {
		return SkillLookup{}, ErrNotFound
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, lookupEntry{Count: count, Skills: matches}, 0); err != nil {
			u.logger.Debug("lookup cache set failed", zap.String("key", key), zap.Error(err))
		}
	}

	return SkillLookup{Query: name, Count: count, Skills: matches}, nil
}

func byRisk(a, b skill.CategorizedRecord) int {
	switch {
	case a.ExtinctionRisk5yr < b.ExtinctionRisk5yr:
		return -1
	case a.ExtinctionRisk5yr > b.ExtinctionRisk5yr:
		return 1
	}
	return 0
}

// head copies the first limit rows, clamping limit to [0, len(rows)].
func head(rows []skill.CategorizedRecord, limit int) []skill.CategorizedRecord {
	if limit < 0 {
		limit = 0
	}
	if limit > len(rows) {
		limit = len(rows)
	}
	out := make([]skill.CategorizedRecord, limit)
	copy(out, rows[:limit])
	return out
}

// categoryStats groups rows in first-seen order and sorts by mean risk,
// highest first, keeping first-seen order on ties.
func categoryStats(rows []skill.CategorizedRecord) []CategoryStat {
	type acc struct {
		sum   float64
		count int
	}
	grouped := make(map[string]*acc)
	order := make([]string, 0)

	for _, r := range rows {
		a, ok := grouped[r.Category]
		if !ok {
			a = &acc{}
			grouped[r.Category] = a
			order = append(order, r.Category)
		}
		a.sum += r.ExtinctionRisk5yr
		a.count++
	}

	out := make([]CategoryStat, 0, len(order))
	for _, c := range order {
		a := grouped[c]
		out = append(out, CategoryStat{Category: c, Mean: a.sum / float64(a.count), Count: a.count})
	}
	slices.SortStableFunc(out, func(a, b CategoryStat) int {
		switch {
		case a.Mean > b.Mean:
			return -1
		case a.Mean < b.Mean:
			return 1
		}
		return 0
	})
	return out
}
