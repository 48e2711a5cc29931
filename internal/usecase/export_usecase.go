package usecase

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/counter-map/internal/domain"
	"github.com/counter-map/internal/domain/repository"
	"github.com/counter-map/internal/pkg/errors"
	"github.com/counter-map/internal/repository/memory"
	"github.com/counter-map/internal/usecase/dto"
)

// ExportUseCase produces the metadata downloads (whole store as
// JSON/CSV/XLSX) and the per-counter raw data archive.
type ExportUseCase struct {
	counterRepo repository.CounterRepository
	cacheRepo   repository.CacheRepository // nil when the cache is disabled
	store       *memory.CounterStore
	logger      *zap.Logger
	countsTTL   time.Duration

	// inFlight guards the raw export against re-entrancy only; it does
	// not cancel requests already running.
	inFlight atomic.Bool
}

func NewExportUseCase(
	counterRepo repository.CounterRepository,
	cacheRepo repository.CacheRepository,
	store *memory.CounterStore,
	logger *zap.Logger,
	countsTTL time.Duration,
) *ExportUseCase {
	return &ExportUseCase{
		counterRepo: counterRepo,
		cacheRepo:   cacheRepo,
		store:       store,
		logger:      logger,
		countsTTL:   countsTTL,
	}
}

// InFlight reports whether a raw export is currently running.
func (uc *ExportUseCase) InFlight() bool {
	return uc.inFlight.Load()
}

// ExportMetadata serializes the whole counter store synchronously.
// Filenames follow nc_counters_<date>.<ext>.
func (uc *ExportUseCase) ExportMetadata(format dto.ExportFormat) (*dto.ExportFile, error) {
	counters := uc.store.All()
	date := time.Now().Format("2006-01-02")

	switch format {
	case dto.FormatJSON:
		data, err := json.MarshalIndent(counters, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal counters: %w", err)
		}
		return &dto.ExportFile{
			Name:        fmt.Sprintf("nc_counters_%s.json", date),
			ContentType: "application/json",
			Data:        data,
		}, nil

	case dto.FormatCSV:
		data, err := metadataCSV(counters)
		if err != nil {
			return nil, fmt.Errorf("encode csv: %w", err)
		}
		return &dto.ExportFile{
			Name:        fmt.Sprintf("nc_counters_%s.csv", date),
			ContentType: "text/csv",
			Data:        data,
		}, nil

	case dto.FormatXLSX:
		data, err := metadataXLSX(counters)
		if err != nil {
			return nil, fmt.Errorf("encode xlsx: %w", err)
		}
		return &dto.ExportFile{
			Name:        fmt.Sprintf("nc_counters_%s.xlsx", date),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil

	default:
		uc.logger.Warn("Unknown export format requested", zap.String("format", string(format)))
		return nil, errors.ErrUnknownExportFormat
	}
}

// ExportRaw builds counter_<id>_data.zip: the datastream list, one
// counts file per datastream, and the combined counts file. Per-stream
// fetches run concurrently and are joined before assembly; the first
// failure aborts the whole export and no partial archive is produced.
// Only one raw export may run at a time.
func (uc *ExportUseCase) ExportRaw(ctx context.Context, counterID int) (*dto.ExportFile, error) {
	if !uc.inFlight.CompareAndSwap(false, true) {
		uc.logger.Warn("Raw export refused: previous export still running",
			zap.Int("counter_id", counterID))
		return nil, errors.ErrExportInProgress
	}
	defer uc.inFlight.Store(false)

	counter, ok := uc.store.Get(counterID)
	if !ok {
		return nil, errors.ErrCounterNotFound
	}

	jobID := uuid.NewString()
	uc.logger.Info("Raw export started",
		zap.String("job_id", jobID),
		zap.Int("counter_id", counterID))

	streams, err := uc.counterRepo.ListDatastreams(ctx, counterID)
	if err != nil {
		uc.logger.Error("Raw export failed: datastream list fetch",
			zap.String("job_id", jobID), zap.Error(err))
		return nil, errors.ErrUpstreamUnavailable
	}

	countsByID, err := uc.fetchAllCounts(ctx, streams)
	if err != nil {
		uc.logger.Error("Raw export failed: counts fetch",
			zap.String("job_id", jobID), zap.Error(err))
		return nil, errors.ErrUpstreamUnavailable
	}

	bundle := dto.RawExportBundle{
		Counter:     counter,
		Datastreams: streams,
		CountsByID:  countsByID,
	}

	data, err := buildRawArchive(bundle)
	if err != nil {
		uc.logger.Error("Raw export failed: archive assembly",
			zap.String("job_id", jobID), zap.Error(err))
		return nil, errors.ErrInternalServer
	}

	uc.logger.Info("Raw export finished",
		zap.String("job_id", jobID),
		zap.Int("datastreams", len(streams)),
		zap.Int("archive_bytes", len(data)))

	return &dto.ExportFile{
		Name:        fmt.Sprintf("counter_%d_data.zip", counterID),
		ContentType: "application/zip",
		Data:        data,
	}, nil
}

// fetchAllCounts fans out one fetch per datastream and joins them.
// Results are keyed by datastream id, so completion order is
// irrelevant. The first error wins and aborts the caller.
func (uc *ExportUseCase) fetchAllCounts(
	ctx context.Context,
	streams []domain.Datastream,
) (map[int][]domain.Count, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	countsByID := make(map[int][]domain.Count, len(streams))

	for _, stream := range streams {
		wg.Add(1)
		go func(s domain.Datastream) {
			defer wg.Done()

			counts, err := uc.fetchCounts(ctx, s.DatastreamID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			countsByID[s.DatastreamID] = counts
		}(stream)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return countsByID, nil
}

func (uc *ExportUseCase) fetchCounts(ctx context.Context, datastreamID int) ([]domain.Count, error) {
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetCounts(ctx, datastreamID)
		if err != nil {
			uc.logger.Warn("Counts cache read failed",
				zap.Int("datastream_id", datastreamID), zap.Error(err))
		}
		if cached != nil {
			return cached, nil
		}
	}

	counts, err := uc.counterRepo.ListCounts(ctx, datastreamID)
	if err != nil {
		return nil, err
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetCounts(ctx, datastreamID, counts, uc.countsTTL); err != nil {
			uc.logger.Warn("Counts cache write failed",
				zap.Int("datastream_id", datastreamID), zap.Error(err))
		}
	}
	return counts, nil
}

// buildRawArchive zips the stream list, one file per datastream and the
// combined bundle.
func buildRawArchive(bundle dto.RawExportBundle) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	addJSON := func(name string, v interface{}) error {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s: %w", name, err)
		}
		w, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		return nil
	}

	id := bundle.Counter.CounterID
	if err := addJSON(fmt.Sprintf("counter_%d_datastreams.json", id), bundle.Datastreams); err != nil {
		return nil, err
	}
	for _, stream := range bundle.Datastreams {
		name := fmt.Sprintf("datastream_%d_counts.json", stream.DatastreamID)
		if err := addJSON(name, bundle.CountsByID[stream.DatastreamID]); err != nil {
			return nil, err
		}
	}
	if err := addJSON(fmt.Sprintf("counter_%d_all_counts.json", id), bundle); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}
