//go:build ignore
// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter mirrors the wire shape of the counts API.
type Counter struct {
	CounterID    int     `json:"counter_id"`
	CounterCode  string  `json:"counter_code"`
	CounterName  string  `json:"counter_name"`
	Vendor       string  `json:"vendor"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	CounterNotes *string `json:"counter_notes,omitempty"`
}

func ptr[T any](v T) *T {
	return &v
}

// Seeds the counters cache key with a small sample set, so the service
// can be exercised without the upstream counts API running.
func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address")
	ttl := flag.Duration("ttl", 5*time.Minute, "Cache TTL")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	counters := []Counter{
		{
			CounterID:    101,
			CounterCode:  "DUR-01",
			CounterName:  "American Tobacco Trail",
			Vendor:       "EcoCounter",
			Latitude:     35.9101,
			Longitude:    -78.9512,
			CounterNotes: ptr("Paved greenway south of downtown Durham"),
		},
		{
			CounterID:   102,
			CounterCode: "RAL-02",
			CounterName: "Reedy Creek Trail",
			Vendor:      "MetroCount",
			Latitude:    35.8012,
			Longitude:   -78.7220,
		},
		{
			CounterID:   205,
			CounterCode: "ASH-03",
			CounterName: "French Broad River Greenway",
			Vendor:      "EcoCounter",
			Latitude:    35.5771,
			Longitude:   -82.5740,
		},
	}

	data, err := json.Marshal(counters)
	if err != nil {
		log.Fatalf("Failed to marshal counters: %v", err)
	}

	if err := client.Set(ctx, "counters:all", data, *ttl).Err(); err != nil {
		log.Fatalf("Failed to seed cache: %v", err)
	}

	fmt.Printf("Seeded %d counters into counters:all (ttl %s)\n", len(counters), *ttl)
}
