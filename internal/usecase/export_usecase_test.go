package usecase_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/counter-map/internal/domain"
	"github.com/counter-map/internal/pkg/errors"
	"github.com/counter-map/internal/repository/memory"
	"github.com/counter-map/internal/usecase"
	"github.com/counter-map/internal/usecase/dto"
)

func newExportFixture(t *testing.T, counters []domain.Counter) (*usecase.ExportUseCase, *MockCounterRepository) {
	t.Helper()
	store := memory.NewCounterStore()
	store.Replace(counters)

	counterRepo := &MockCounterRepository{}
	return usecase.NewExportUseCase(counterRepo, nil, store, zap.NewNop(), 0), counterRepo
}

func TestExportUseCase_ExportMetadata(t *testing.T) {
	counters := testCounters()

	t.Run("json", func(t *testing.T) {
		exportUC, _ := newExportFixture(t, counters)

		file, err := exportUC.ExportMetadata(dto.FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, "application/json", file.ContentType)
		assert.True(t, strings.HasPrefix(file.Name, "nc_counters_"))
		assert.True(t, strings.HasSuffix(file.Name, ".json"))

		var decoded []domain.Counter
		require.NoError(t, json.Unmarshal(file.Data, &decoded))
		assert.Equal(t, counters, decoded)
	})

	t.Run("csv quotes fields containing commas", func(t *testing.T) {
		withComma := []domain.Counter{{
			CounterID:   7,
			CounterCode: "WIL-07",
			CounterName: "River Rd, Mile 3",
			Vendor:      "EcoCounter",
			Latitude:    34.2257,
			Longitude:   -77.9447,
		}}
		exportUC, _ := newExportFixture(t, withComma)

		file, err := exportUC.ExportMetadata(dto.FormatCSV)
		require.NoError(t, err)
		assert.Equal(t, "text/csv", file.ContentType)

		records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)

		header := records[0]
		assert.Equal(t, []string{
			"counter_id", "counter_code", "counter_name", "vendor",
			"latitude", "longitude", "counter_notes",
		}, header)

		row := records[1]
		assert.Equal(t, "7", row[0])
		assert.Equal(t, "River Rd, Mile 3", row[2])
		// Nil notes encode as an empty cell, not the string "nil".
		assert.Equal(t, "", row[6])
	})

	t.Run("xlsx produces a readable workbook", func(t *testing.T) {
		exportUC, _ := newExportFixture(t, counters)

		file, err := exportUC.ExportMetadata(dto.FormatXLSX)
		require.NoError(t, err)
		assert.Equal(t,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			file.ContentType)
		assert.NotEmpty(t, file.Data)
		// XLSX is a ZIP container.
		assert.Equal(t, []byte{'P', 'K'}, file.Data[:2])
	})

	t.Run("unknown format", func(t *testing.T) {
		exportUC, _ := newExportFixture(t, counters)

		_, err := exportUC.ExportMetadata(dto.ExportFormat("pdf"))
		assert.ErrorIs(t, err, errors.ErrUnknownExportFormat)
	})
}

func TestExportUseCase_ExportRaw(t *testing.T) {
	ctx := context.Background()
	counters := testCounters()

	streams := []domain.Datastream{
		{DatastreamID: 11, CounterID: 101, DatastreamType: domain.DatastreamPedestrian, DatastreamDirection: domain.DirectionIn},
		{DatastreamID: 12, CounterID: 101, DatastreamType: domain.DatastreamRoadwayCyclist, DatastreamDirection: domain.DirectionCombined},
	}
	countOne := 42
	counts := []domain.Count{
		{CountID: 1, DatastreamID: 11, DateTime: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), RawCount: &countOne},
	}

	t.Run("archive holds streams, per-stream counts and the bundle", func(t *testing.T) {
		exportUC, counterRepo := newExportFixture(t, counters)
		counterRepo.On("ListDatastreams", ctx, 101).Return(streams, nil)
		counterRepo.On("ListCounts", ctx, 11).Return(counts, nil)
		counterRepo.On("ListCounts", ctx, 12).Return([]domain.Count{}, nil)

		file, err := exportUC.ExportRaw(ctx, 101)
		require.NoError(t, err)
		assert.Equal(t, "counter_101_data.zip", file.Name)
		assert.Equal(t, "application/zip", file.ContentType)

		zr, err := zip.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
		require.NoError(t, err)

		names := make([]string, 0, len(zr.File))
		for _, f := range zr.File {
			names = append(names, f.Name)
		}
		assert.ElementsMatch(t, []string{
			"counter_101_datastreams.json",
			"datastream_11_counts.json",
			"datastream_12_counts.json",
			"counter_101_all_counts.json",
		}, names)

		counterRepo.AssertExpectations(t)
		assert.False(t, exportUC.InFlight())
	})

	t.Run("unknown counter", func(t *testing.T) {
		exportUC, _ := newExportFixture(t, counters)

		_, err := exportUC.ExportRaw(ctx, 999)
		assert.ErrorIs(t, err, errors.ErrCounterNotFound)
	})

	t.Run("one failed stream aborts the whole export", func(t *testing.T) {
		exportUC, counterRepo := newExportFixture(t, counters)
		counterRepo.On("ListDatastreams", ctx, 101).Return(streams, nil)
		counterRepo.On("ListCounts", ctx, 11).Return(counts, nil)
		counterRepo.On("ListCounts", ctx, 12).Return(nil, assert.AnError)

		_, err := exportUC.ExportRaw(ctx, 101)
		assert.ErrorIs(t, err, errors.ErrUpstreamUnavailable)
		assert.False(t, exportUC.InFlight())
	})

	t.Run("second export is refused while the first runs", func(t *testing.T) {
		exportUC, counterRepo := newExportFixture(t, counters)

		release := make(chan struct{})
		counterRepo.On("ListDatastreams", ctx, 101).
			Run(func(mock.Arguments) { <-release }).
			Return(streams, nil)
		counterRepo.On("ListCounts", ctx, mock.Anything).Return([]domain.Count{}, nil)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := exportUC.ExportRaw(ctx, 101)
			assert.NoError(t, err)
		}()

		// Wait until the first export holds the in-flight flag.
		require.Eventually(t, exportUC.InFlight, time.Second, time.Millisecond)

		_, err := exportUC.ExportRaw(ctx, 101)
		assert.ErrorIs(t, err, errors.ErrExportInProgress)

		close(release)
		wg.Wait()
		assert.False(t, exportUC.InFlight())
	})
}
