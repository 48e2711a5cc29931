package repository

import (
	"context"

	"github.com/counter-map/internal/domain"
)

// CounterRepository reads counter data from the upstream NC COAST API.
type CounterRepository interface {
	// ListCounters fetches the full counter list.
	ListCounters(ctx context.Context) ([]domain.Counter, error)

	// ListDatastreams fetches all datastreams of one counter.
	ListDatastreams(ctx context.Context, counterID int) ([]domain.Datastream, error)

	// ListCounts fetches all count records of one datastream.
	ListCounts(ctx context.Context, datastreamID int) ([]domain.Count, error)
}
