package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"skill-radar/internal/domain/skill"
)

const (
	ColumnSkillName          = "skill_name"
	ColumnScaleID            = "scale_id"
	ColumnValue              = "value"
	ColumnAISubstitutionRate = "ai_substitution_rate"
	ColumnHalfLifeYears      = "half_life_years"
	ColumnExtinctionRisk5yr  = "extinction_risk_5yr"
)

// DerivedHeader is the persisted column order of the cleaned dataset.
var DerivedHeader = []string{
	ColumnSkillName,
	ColumnScaleID,
	ColumnValue,
	ColumnAISubstitutionRate,
	ColumnHalfLifeYears,
	ColumnExtinctionRisk5yr,
}

func WriteDerived(w io.Writer, records []skill.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DerivedHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.SkillName,
			r.ScaleID,
			FormatFloat(r.Value),
			FormatFloat(r.AISubstitutionRate),
			FormatFloat(r.HalfLifeYears),
			FormatFloat(r.ExtinctionRisk5yr),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDerivedFile writes the dataset, creating parent directories as needed.
func WriteDerivedFile(path string, records []skill.Record) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create derived dataset: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := WriteDerived(f, records); err != nil {
		return fmt.Errorf("write derived dataset: %w", err)
	}
	return nil
}

// ReadDerived loads a cleaned dataset. Columns may appear in any order; extra
// columns are ignored.
func ReadDerived(r io.Reader) ([]skill.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty dataset", ErrSchemaMismatch)
		}
		return nil, fmt.Errorf("read derived header: %w", err)
	}

	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		h = normalizeHeader(h)
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	var missing []string
	for _, col := range DerivedHeader {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}

	out := make([]skill.Record, 0)
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, line, err)
		}

		rec := skill.Record{
			SkillName: field(row, idx[ColumnSkillName]),
			ScaleID:   field(row, idx[ColumnScaleID]),
		}
		nums := []struct {
			col string
			dst *float64
		}{
			{ColumnValue, &rec.Value},
			{ColumnAISubstitutionRate, &rec.AISubstitutionRate},
			{ColumnHalfLifeYears, &rec.HalfLifeYears},
			{ColumnExtinctionRisk5yr, &rec.ExtinctionRisk5yr},
		}
		for _, n := range nums {
			raw := field(row, idx[n.col])
			v, err := parseFinite(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s %q %v", ErrMalformedRow, line, n.col, raw, err)
			}
			*n.dst = v
		}

		out = append(out, rec)
	}
	return out, nil
}

func ReadDerivedFile(path string) ([]skill.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open derived dataset: %w", err)
	}
	defer f.Close()

	records, err := ReadDerived(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// FormatFloat renders the shortest round-trip form, keeping a ".0" suffix on
// whole numbers.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	if _, missing := missingTokens[strings.TrimSpace(row[idx])]; missing {
		return ""
	}
	return row[idx]
}
