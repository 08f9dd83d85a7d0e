// Package pipeline orchestrates one batch run: a strictly sequential fold
// over every row of an uploaded table, delegating the per-trip state machine
// to a Transformer and appending the derived columns.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/szting/sgtravel-co2-calculator/internal/domain"
	"github.com/szting/sgtravel-co2-calculator/internal/observability"
	"github.com/szting/sgtravel-co2-calculator/internal/table"
)

// Columns appended to every processed table, in order.
const (
	ColumnDistance = "Distance_KM"
	ColumnEmission = "CO2_Emissions_KG"
	ColumnStatus   = "Calculation_Status"
)

// Transformer runs one trip through the resolution state machine.
type Transformer interface {
	Transform(ctx context.Context, origin, destination string) domain.Record
}

// Result is a completed batch: the augmented table plus aggregate counters.
type Result struct {
	Table     *table.Table
	Total     int
	Succeeded int
}

// Summary returns the human-facing run summary.
func (r *Result) Summary() string {
	return fmt.Sprintf("Processed %d out of %d records successfully", r.Succeeded, r.Total)
}

// Pipeline processes batches of trip rows one at a time, in input order.
// Sequential processing is a deliberate rate-limit-safety tradeoff, not a
// performance target.
type Pipeline struct {
	transformer Transformer
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	progress    func(done, total int)
}

// New creates a Pipeline with the given transformer and observability.
func New(t Transformer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		transformer: t,
		logger:      logger,
		metrics:     metrics,
	}
}

// SetProgress installs a callback invoked after each processed row with the
// number of rows done and the batch total. Used by the CLI progress bar.
func (p *Pipeline) SetProgress(fn func(done, total int)) {
	p.progress = fn
}

// CheckReadiness returns nil once the pipeline has completed at least one
// batch, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any batches yet")
	}
	return nil
}

// Process runs every row of in through the transformer and returns a new
// table with the three derived columns appended, preserving row order and
// all original columns. Structural faults (required columns absent) abort
// the whole batch with no output; per-row failures degrade to a status and
// processing continues.
func (p *Pipeline) Process(ctx context.Context, in *table.Table) (*Result, error) {
	startCol, endCol, err := table.LocateAddressColumns(in.Header)
	if err != nil {
		return nil, err
	}

	p.metrics.BatchesInFlight.Inc()
	defer p.metrics.BatchesInFlight.Dec()
	start := time.Now()

	total := len(in.Rows)
	out := &table.Table{
		Header: append(append([]string{}, in.Header...), ColumnDistance, ColumnEmission, ColumnStatus),
		Rows:   make([][]string, 0, total),
	}

	succeeded := 0
	for i := range in.Rows {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("batch aborted after %d of %d rows: %w", i, total, ctx.Err())
		}

		rec := p.transformer.Transform(ctx, in.Cell(i, startCol), in.Cell(i, endCol))
		if rec.Succeeded() {
			succeeded++
		}

		out.Rows = append(out.Rows, appendDerived(in.Rows[i], len(in.Header), rec))

		p.metrics.RowsProcessed.Inc()
		p.metrics.RowStatus.WithLabelValues(string(rec.Status)).Inc()
		if p.progress != nil {
			p.progress(i+1, total)
		}
	}

	p.metrics.BatchesTotal.Inc()
	p.metrics.BatchSize.Observe(float64(total))
	p.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	result := &Result{Table: out, Total: total, Succeeded: succeeded}
	p.logger.Info("batch processed",
		"rows", total,
		"succeeded", succeeded,
		"duration", time.Since(start),
	)
	return result, nil
}

// appendDerived pads a row to the input header width and appends the three
// derived cells. Distance and emission cells are blank unless the record
// succeeded. Rows may be ragged in both directions: short rows are padded,
// over-wide rows keep their unheadered trailing fields.
func appendDerived(row []string, width int, rec domain.Record) []string {
	if len(row) > width {
		width = len(row)
	}
	padded := make([]string, width, width+3)
	copy(padded, row)

	distance, emission := "", ""
	if rec.Succeeded() {
		distance = strconv.FormatFloat(*rec.DistanceKM, 'f', 2, 64)
		emission = strconv.FormatFloat(*rec.EmissionKG, 'f', 3, 64)
	}
	return append(padded, distance, emission, string(rec.Status))
}
