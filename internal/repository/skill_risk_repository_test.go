package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"skill-radar/internal/database"
	"skill-radar/internal/domain/skill"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB keeps skill_risks rows in memory keyed by position.
type fakeDB struct {
	mu sync.Mutex

	table     map[int]skill.Record
	columns   []string
	execs     []string
	failAt    int
	committed bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{table: map[int]skill.Record{}, columns: append([]string(nil), skillRiskColumns...), failAt: -1}
}

func (db *fakeDB) Ping(context.Context) error { return nil }
func (db *fakeDB) Close() error               { return nil }

func (db *fakeDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.execs = append(db.execs, strings.TrimSpace(query))
	return 0, nil
}

func (db *fakeDB) Query(_ context.Context, query string, _ ...any) (database.Rows, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if strings.Contains(query, "information_schema.columns") {
		return &columnRows{cols: db.columns, idx: -1}, nil
	}
	if !strings.Contains(query, "ORDER BY position") {
		return nil, fmt.Errorf("unexpected query")
	}
	out := make([]skill.Record, len(db.table))
	for pos, rec := range db.table {
		out[pos] = rec
	}
	return &fakeRows{items: out, idx: -1}, nil
}


func (db *fakeDB) Begin(context.Context) (database.Tx, error) {
	return &fakeTx{db: db, staged: map[int]skill.Record{}}, nil
}

type fakeTx struct {
	db      *fakeDB
	staged  map[int]skill.Record
	cleared bool
	done    bool
}

func (tx *fakeTx) Exec(_ context.Context, query string, args ...any) (int64, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(q, "delete from skill_risks"):
		tx.cleared = true
		return 0, nil
	case strings.HasPrefix(q, "insert into skill_risks"):
		pos := args[0].(int)
		if pos == tx.db.failAt {
			return 0, fmt.Errorf("boom")
		}
		tx.staged[pos] = skill.Record{
			SkillName:          args[1].(string),
			ScaleID:            args[2].(string),
			Value:              args[3].(float64),
			AISubstitutionRate: args[4].(float64),
			HalfLifeYears:      args[5].(float64),
			ExtinctionRisk5yr:  args[6].(float64),
		}
		return 1, nil
	}
	return 0, fmt.Errorf("unexpected exec: %s", query)
}

func (tx *fakeTx) Query(context.Context, string, ...any) (database.Rows, error) {
	return nil, fmt.Errorf("not implemented")
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	if tx.cleared {
		tx.db.table = map[int]skill.Record{}
	}
	for k, v := range tx.staged {
		tx.db.table[k] = v
	}
	tx.db.committed = true
	tx.done = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if tx.done {
		return fmt.Errorf("tx closed")
	}
	tx.done = true
	return nil
}

type fakeRows struct {
	items []skill.Record
	idx   int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.items)
}
func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) != 6 {
		return fmt.Errorf("scan dest mismatch")
	}
	it := r.items[r.idx]
	*dest[0].(*string) = it.SkillName
	*dest[1].(*string) = it.ScaleID
	*dest[2].(*float64) = it.Value
	*dest[3].(*float64) = it.AISubstitutionRate
	*dest[4].(*float64) = it.HalfLifeYears
	*dest[5].(*float64) = it.ExtinctionRisk5yr
	return nil
}

type columnRows struct {
	cols []string
	idx  int
}

func (r *columnRows) Close()     {}
func (r *columnRows) Err() error { return nil }
func (r *columnRows) Next() bool {
	r.idx++
	return r.idx < len(r.cols)
}
func (r *columnRows) Scan(dest ...any) error {
	*dest[0].(*string) = r.cols[r.idx]
	return nil
}

func records() []skill.Record {
	return []skill.Record{
		skill.Derive(skill.RawRecord{SkillName: "Writing", ScaleID: "IM", Value: 4}),
		skill.Derive(skill.RawRecord{SkillName: "Record Keeping", ScaleID: "LV", Value: 2.5}),
		skill.Derive(skill.RawRecord{SkillName: "Programming", ScaleID: "IM", Value: 3.2}),
	}
}

func TestPostgresSkillRiskRepository_EnsureSchema(t *testing.T) {
	db := newFakeDB()
	repo := NewPostgresSkillRiskRepository(db)

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0], "CREATE TABLE IF NOT EXISTS skill_risks")
}

func TestPostgresSkillRiskRepository_CheckSchema(t *testing.T) {
	db := newFakeDB()
	repo := NewPostgresSkillRiskRepository(db)
	require.NoError(t, repo.CheckSchema(context.Background()))

	db.columns = []string{"position", "skill_name", "scale_id", "value"}
	err := repo.CheckSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ai_substitution_rate, half_life_years, extinction_risk_5yr")

	db.columns = nil
	assert.Error(t, repo.CheckSchema(context.Background()))
}

func TestPostgresSkillRiskRepository_ReplaceAllThenListAll(t *testing.T) {
	db := newFakeDB()
	db.table[7] = skill.Record{SkillName: "stale"}
	repo := NewPostgresSkillRiskRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, records()))
	assert.True(t, db.committed)

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, records(), got)
}

func TestPostgresSkillRiskRepository_ReplaceAllFailureDoesNotCommit(t *testing.T) {
	db := newFakeDB()
	db.failAt = 1
	repo := NewPostgresSkillRiskRepository(db)

	err := repo.ReplaceAll(context.Background(), records())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position=1")
	assert.False(t, db.committed)
	assert.Empty(t, db.table)
}

func TestPostgresSkillRiskRepository_NilDB(t *testing.T) {
	repo := NewPostgresSkillRiskRepository(nil)
	_, err := repo.ListAll(context.Background())
	assert.Error(t, err)
}
