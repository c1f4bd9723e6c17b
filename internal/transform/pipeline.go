package transform

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"skill-radar/internal/dataset"
	"skill-radar/internal/domain/skill"

	"go.uber.org/zap"
)

const (
	DefaultInputPath  = "data/raw/onet_skills/Skills_clean.csv"
	DefaultOutputPath = "data/cleaned_skills.csv"
	DefaultSampleSize = 200
	PreviewRows       = 10
)

// Publisher receives the derived table after it has been written to disk.
type Publisher interface {
	ReplaceAll(ctx context.Context, records []skill.Record) error
}

type Options struct {
	InputPath  string
	OutputPath string
	Limit      int
}

func (o Options) withDefaults() Options {
	if o.InputPath == "" {
		o.InputPath = DefaultInputPath
	}
	if o.OutputPath == "" {
		o.OutputPath = DefaultOutputPath
	}
	if o.Limit <= 0 {
		o.Limit = DefaultSampleSize
	}
	return o
}

type Result struct {
	OutputPath  string
	RowsRead    int
	RowsDropped int
	Records     []skill.Record
	Published   bool
}

type Pipeline struct {
	publisher Publisher
	logger    *zap.Logger
}

func NewPipeline(publisher Publisher, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{publisher: publisher, logger: logger.With(zap.String("component", "transform"))}
}

// Run reads the raw table, derives risk fields for the first Limit complete
// rows in source order and writes them to OutputPath.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Result, error) {
	opts = opts.withDefaults()

	raw, err := dataset.ReadRawFile(opts.InputPath)
	if err != nil {
		return Result{}, err
	}
	p.logger.Info("raw dataset read",
		zap.String("path", opts.InputPath),
		zap.Int("rows", raw.Total),
		zap.Int("dropped", raw.Dropped),
	)

	records := Derive(raw.Records, opts.Limit)

	if err := dataset.WriteDerivedFile(opts.OutputPath, records); err != nil {
		return Result{}, err
	}
	p.logger.Info("derived dataset written", zap.String("path", opts.OutputPath), zap.Int("rows", len(records)))

	res := Result{
		OutputPath:  opts.OutputPath,
		RowsRead:    raw.Total,
		RowsDropped: raw.Dropped,
		Records:     records,
	}

	if p.publisher != nil {
		if err := p.publisher.ReplaceAll(ctx, records); err != nil {
			return Result{}, fmt.Errorf("publish derived dataset: %w", err)
		}
		res.Published = true
		p.logger.Info("derived dataset published", zap.Int("rows", len(records)))
	}

	return res, nil
}

// Derive scores at most limit raw rows, keeping their order.
func Derive(raws []skill.RawRecord, limit int) []skill.Record {
	n := len(raws)
	if limit >= 0 && limit < n {
		n = limit
	}
	out := make([]skill.Record, 0, n)
	for _, r := range raws[:n] {
		out = append(out, skill.Derive(r))
	}
	return out
}

// WritePreview prints the confirmation line and the first n rows as a table.
func WritePreview(w io.Writer, res Result, n int) error {
	if _, err := fmt.Fprintf(w, "Saved %s with %d rows\n", res.OutputPath, len(res.Records)); err != nil {
		return err
	}
	if n > len(res.Records) {
		n = len(res.Records)
	}
	if n <= 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tskill_name\tscale_id\tvalue\tai_substitution_rate\thalf_life_years\textinction_risk_5yr")
	for i, r := range res.Records[:n] {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i,
			r.SkillName,
			r.ScaleID,
			dataset.FormatFloat(r.Value),
			dataset.FormatFloat(r.AISubstitutionRate),
			dataset.FormatFloat(r.HalfLifeYears),
			dataset.FormatFloat(r.ExtinctionRisk5yr),
		)
	}
	return tw.Flush()
}
