package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"skill-radar/internal/domain/skill"
)

var (
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrMalformedRow   = errors.New("malformed row")
)

// Header phrases located by substring in the raw O*NET export.
const (
	HeaderElementName = "Element Name"
	HeaderScaleID     = "Scale ID"
	HeaderDataValue   = "Data Value"
)

// RawColumns holds the zero-based positions of the three source columns.
type RawColumns struct {
	Name    int
	ScaleID int
	Value   int
}

type RawResult struct {
	Records []skill.RawRecord
	Total   int
	Dropped int
}

var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"#N/A": {},
	"None": {},
}

// ResolveRawColumns requires each phrase to appear in exactly one header and
// no other header to carry any of them.
func ResolveRawColumns(headers []string) (RawColumns, error) {
	phrases := []string{HeaderElementName, HeaderScaleID, HeaderDataValue}
	found := make(map[string][]int, len(phrases))
	matched := 0

	for i, h := range headers {
		h = normalizeHeader(h)
		hit := false
		for _, p := range phrases {
			if strings.Contains(h, p) {
				found[p] = append(found[p], i)
				hit = true
			}
		}
		if hit {
			matched++
		}
	}

	var problems []string
	for _, p := range phrases {
		switch n := len(found[p]); {
		case n == 0:
			problems = append(problems, fmt.Sprintf("no column contains %q", p))
		case n > 1:
			problems = append(problems, fmt.Sprintf("%d columns contain %q", n, p))
		}
	}
	if len(problems) == 0 && matched != len(phrases) {
		problems = append(problems, fmt.Sprintf("expected %d matching columns, got %d", len(phrases), matched))
	}
	if len(problems) > 0 {
		return RawColumns{}, fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(problems, "; "))
	}

	return RawColumns{
		Name:    found[HeaderElementName][0],
		ScaleID: found[HeaderScaleID][0],
		Value:   found[HeaderDataValue][0],
	}, nil
}

// ReadRaw parses the source table, dropping rows with a missing name, scale
// or value. A present but non-numeric value is an error.
func ReadRaw(r io.Reader) (RawResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return RawResult{}, fmt.Errorf("%w: empty input", ErrSchemaMismatch)
		}
		return RawResult{}, fmt.Errorf("read raw header: %w", err)
	}

	cols, err := ResolveRawColumns(headers)
	if err != nil {
		return RawResult{}, err
	}

	res := RawResult{Records: make([]skill.RawRecord, 0)}
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return RawResult{}, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, line, err)
		}
		res.Total++

		name, okName := cell(row, cols.Name)
		scale, okScale := cell(row, cols.ScaleID)
		raw, okValue := cell(row, cols.Value)
		if !okName || !okScale || !okValue {
			res.Dropped++
			continue
		}

		v, err := parseFinite(strings.TrimSpace(raw))
		if err != nil {
			return RawResult{}, fmt.Errorf("%w: line %d: %s %q %v", ErrMalformedRow, line, HeaderDataValue, raw, err)
		}

		res.Records = append(res.Records, skill.RawRecord{SkillName: name, ScaleID: scale, Value: v})
	}

	return res, nil
}

func ReadRawFile(path string) (RawResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return RawResult{}, fmt.Errorf("open raw dataset: %w", err)
	}
	defer f.Close()

	res, err := ReadRaw(f)
	if err != nil {
		return RawResult{}, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// cell returns the cell as written. Missing-value tokens are matched on the
// trimmed text.
func cell(row []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(row) {
		return "", false
	}
	if _, missing := missingTokens[strings.TrimSpace(row[idx])]; missing {
		return "", false
	}
	return row[idx], true
}

var (
	errNotNumeric = errors.New("is not numeric")
	errNotFinite  = errors.New("is not a finite number")
)

// parseFinite rejects Inf and NaN, which the derived table and the JSON
// responses cannot carry.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errNotNumeric
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, errNotFinite
	}
	return v, nil
}

func normalizeHeader(h string) string {
	return strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
}
