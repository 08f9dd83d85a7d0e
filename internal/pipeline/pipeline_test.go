package pipeline_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/szting/sgtravel-co2-calculator/internal/domain"
	"github.com/szting/sgtravel-co2-calculator/internal/observability"
	"github.com/szting/sgtravel-co2-calculator/internal/pipeline"
	"github.com/szting/sgtravel-co2-calculator/internal/table"
)

// --- fakes ---

// fakeGeocoder resolves from a fixed table; anything else is ErrNotFound.
type fakeGeocoder struct {
	results map[string]domain.GeocodeResult
}

func (g *fakeGeocoder) Resolve(_ context.Context, address string) (domain.GeocodeResult, error) {
	if r, ok := g.results[address]; ok {
		return r, nil
	}
	return domain.GeocodeResult{}, domain.ErrNotFound
}

var singaporeAddresses = map[string]domain.GeocodeResult{
	"Changi Airport": {Coordinate: domain.Coordinate{Lat: 1.3644, Lon: 103.9915}, FormattedAddress: "SINGAPORE CHANGI AIRPORT"},
	"Marina Bay":     {Coordinate: domain.Coordinate{Lat: 1.2834, Lon: 103.8607}, FormattedAddress: "MARINA BAY"},
	"Jurong East":    {Coordinate: domain.Coordinate{Lat: 1.3329, Lon: 103.7436}, FormattedAddress: "JURONG EAST"},
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline() *pipeline.Pipeline {
	transformer := pipeline.NewTransformer(
		&fakeGeocoder{results: singaporeAddresses},
		domain.DistanceEstimator{Circuity: 1.3},
		domain.EmissionCalculator{FactorKgPerKm: 0.2},
		testLogger(),
	)
	return pipeline.New(transformer, testLogger(), observability.NewMetricsForTesting())
}

func mustReadCSV(t *testing.T, csv string) *table.Table {
	t.Helper()
	tbl, err := table.Read(strings.NewReader(csv))
	require.NoError(t, err)
	return tbl
}

// --- scenarios ---

func TestProcess_IdenticalOriginAndDestination(t *testing.T) {
	in := mustReadCSV(t, "Start Address,End Address\nMarina Bay,Marina Bay\n")

	result, err := newTestPipeline().Process(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, "Processed 1 out of 1 records successfully", result.Summary())

	require.Len(t, result.Table.Rows, 1)
	row := result.Table.Rows[0]
	assert.Equal(t, []string{"Marina Bay", "Marina Bay", "0.00", "0.000", "Success"}, row)
}

func TestProcess_MissingOriginAddress(t *testing.T) {
	in := mustReadCSV(t, "Start Address,End Address\n,Marina Bay\n")

	result, err := newTestPipeline().Process(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Succeeded)
	row := result.Table.Rows[0]
	assert.Equal(t, "", row[2], "distance must be absent")
	assert.Equal(t, "", row[3], "emission must be absent")
	assert.Equal(t, "MissingAddress", row[4])
}

func TestProcess_UnresolvableDestination(t *testing.T) {
	in := mustReadCSV(t, "Start Address,End Address\nMarina Bay,123 Nowhere Lane\n")

	result, err := newTestPipeline().Process(context.Background(), in)
	require.NoError(t, err)

	row := result.Table.Rows[0]
	assert.Equal(t, "DestinationNotFound", row[4])
	assert.Equal(t, "", row[2])
	assert.Equal(t, "", row[3])
}

func TestProcess_MissingEndColumnAbortsBatch(t *testing.T) {
	in := mustReadCSV(t, "Start Address,Destination\nMarina Bay,Changi Airport\n")

	result, err := newTestPipeline().Process(context.Background(), in)
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrMissingColumns)
	assert.Nil(t, result, "structural failure must produce no output table")
}

func TestProcess_MixedBatchPreservesOrderAndCount(t *testing.T) {
	in := mustReadCSV(t, strings.Join([]string{
		"Trip ID,Start Address,End Address,Notes",
		"1,Changi Airport,Marina Bay,airport run",
		"2,,Marina Bay,",
		"3,Marina Bay,123 Nowhere Lane,",
		"4,Jurong East,Changi Airport,cross island",
		"5,123 Nowhere Lane,Marina Bay,",
	}, "\n") + "\n")

	result, err := newTestPipeline().Process(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, "Processed 2 out of 5 records successfully", result.Summary())
	require.Len(t, result.Table.Rows, 5)

	// Original columns pass through unchanged, in input order.
	assert.Equal(t, "1", result.Table.Rows[0][0])
	assert.Equal(t, "airport run", result.Table.Rows[0][3])
	assert.Equal(t, "5", result.Table.Rows[4][0])

	statuses := make([]string, 0, 5)
	for _, row := range result.Table.Rows {
		statuses = append(statuses, row[len(row)-1])
	}
	assert.Equal(t, []string{"Success", "MissingAddress", "DestinationNotFound", "Success", "OriginNotFound"}, statuses)

	assert.Equal(t,
		[]string{"Trip ID", "Start Address", "End Address", "Notes", "Distance_KM", "CO2_Emissions_KG", "Calculation_Status"},
		result.Table.Header,
	)
}

func TestProcess_KeepsUnheaderedTrailingFields(t *testing.T) {
	in := mustReadCSV(t, "Start Address,End Address\nMarina Bay,Changi Airport,extra,fields\n")

	result, err := newTestPipeline().Process(context.Background(), in)
	require.NoError(t, err)

	row := result.Table.Rows[0]
	require.Len(t, row, 7)
	assert.Equal(t, "extra", row[2])
	assert.Equal(t, "fields", row[3])
	assert.Regexp(t, `^\d+\.\d{2}$`, row[4])
	assert.Regexp(t, `^\d+\.\d{3}$`, row[5])
	assert.Equal(t, "Success", row[6])
}

func TestProcess_DistanceAndEmissionConsistent(t *testing.T) {
	in := mustReadCSV(t, "Start Address,End Address\nChangi Airport,Jurong East\n")

	result, err := newTestPipeline().Process(context.Background(), in)
	require.NoError(t, err)

	row := result.Table.Rows[0]
	require.Equal(t, "Success", row[4])
	assert.Regexp(t, `^\d+\.\d{2}$`, row[2])
	assert.Regexp(t, `^\d+\.\d{3}$`, row[3])
}

func TestProcess_Idempotent(t *testing.T) {
	const csv = "Start Address,End Address\nChangi Airport,Marina Bay\n,x\nMarina Bay,Jurong East\n"

	run := func() []byte {
		result, err := newTestPipeline().Process(context.Background(), mustReadCSV(t, csv))
		require.NoError(t, err)
		var buf bytes.Buffer
		require.NoError(t, result.Table.Write(&buf))
		return buf.Bytes()
	}

	first, second := run(), run()
	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Fatalf("reprocessing the same input produced different output (-first +second):\n%s", diff)
	}
}

func TestProcess_DoesNotMutateInput(t *testing.T) {
	in := mustReadCSV(t, "Start Address,End Address\nMarina Bay,Changi Airport\n")
	headerBefore := append([]string{}, in.Header...)
	rowBefore := append([]string{}, in.Rows[0]...)

	_, err := newTestPipeline().Process(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, headerBefore, in.Header)
	assert.Equal(t, rowBefore, in.Rows[0])
}

func TestProcess_ProgressCallback(t *testing.T) {
	in := mustReadCSV(t, "Start Address,End Address\nMarina Bay,Changi Airport\nJurong East,Marina Bay\n")

	p := newTestPipeline()
	var seen [][2]int
	p.SetProgress(func(done, total int) {
		seen = append(seen, [2]int{done, total})
	})

	_, err := p.Process(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, seen)
}

func TestProcess_ReadinessFlipsAfterFirstBatch(t *testing.T) {
	p := newTestPipeline()
	require.Error(t, p.CheckReadiness(context.Background()))

	_, err := p.Process(context.Background(), mustReadCSV(t, "Start Address,End Address\nMarina Bay,Marina Bay\n"))
	require.NoError(t, err)

	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestProcess_CancelledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := mustReadCSV(t, "Start Address,End Address\nMarina Bay,Marina Bay\n")
	result, err := newTestPipeline().Process(ctx, in)
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestProcess_EmptyBatch(t *testing.T) {
	in := mustReadCSV(t, "Start Address,End Address\n")

	result, err := newTestPipeline().Process(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, "Processed 0 out of 0 records successfully", result.Summary())
	assert.Empty(t, result.Table.Rows)
}
