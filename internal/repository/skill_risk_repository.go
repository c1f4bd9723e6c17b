package repository

import (
	"context"
	"fmt"
	"strings"

	"skill-radar/internal/database"
	"skill-radar/internal/domain/skill"
)

const createSkillRisksTable = `CREATE TABLE IF NOT EXISTS skill_risks (
	position INTEGER PRIMARY KEY,
	skill_name TEXT NOT NULL,
	scale_id TEXT NOT NULL,
	value DOUBLE PRECISION NOT NULL,
	ai_substitution_rate DOUBLE PRECISION NOT NULL,
	half_life_years DOUBLE PRECISION NOT NULL,
	extinction_risk_5yr DOUBLE PRECISION NOT NULL
)`

var skillRiskColumns = []string{
	"position",
	"skill_name",
	"scale_id",
	"value",
	"ai_substitution_rate",
	"half_life_years",
	"extinction_risk_5yr",
}

// SkillRiskRepository mirrors the derived dataset into a relational table,
// preserving table order through the position column.
type SkillRiskRepository interface {
	EnsureSchema(ctx context.Context) error
	CheckSchema(ctx context.Context) error
	ReplaceAll(ctx context.Context, records []skill.Record) error
	ListAll(ctx context.Context) ([]skill.Record, error)
}

type PostgresSkillRiskRepository struct {
	db database.DB
}

func NewPostgresSkillRiskRepository(db database.DB) *PostgresSkillRiskRepository {
	return &PostgresSkillRiskRepository{db: db}
}

func (r *PostgresSkillRiskRepository) EnsureSchema(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("nil db")
	}
	_, err := r.db.Exec(ctx, createSkillRisksTable)
	return err
}

// CheckSchema fails when skill_risks is absent or lacks a required column.
func (r *PostgresSkillRiskRepository) CheckSchema(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("nil db")
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema='public' AND table_name=$1`,
		"skill_risks",
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, col := range skillRiskColumns {
		if _, ok := existing[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema mismatch: skill_risks missing columns %s", strings.Join(missing, ", "))
	}
	return nil
}

func (r *PostgresSkillRiskRepository) ReplaceAll(ctx context.Context, records []skill.Record) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("nil db")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM skill_risks`); err != nil {
		return fmt.Errorf("clear skill_risks: %w", err)
	}

	for i, rec := range records {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO skill_risks (position, skill_name, scale_id, value, ai_substitution_rate, half_life_years, extinction_risk_5yr)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			i,
			rec.SkillName,
			rec.ScaleID,
			rec.Value,
			rec.AISubstitutionRate,
			rec.HalfLifeYears,
			rec.ExtinctionRisk5yr,
		)
		if err != nil {
			return fmt.Errorf("insert skill_risks position=%d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PostgresSkillRiskRepository) ListAll(ctx context.Context) ([]skill.Record, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("nil db")
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT skill_name, scale_id, value, ai_substitution_rate, half_life_years, extinction_risk_5yr
		 FROM skill_risks ORDER BY position ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Record, 0)
	for rows.Next() {
		var rec skill.Record
		if err := rows.Scan(
			&rec.SkillName,
			&rec.ScaleID,
			&rec.Value,
			&rec.AISubstitutionRate,
			&rec.HalfLifeYears,
			&rec.ExtinctionRisk5yr,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
