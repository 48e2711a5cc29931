package domain

import "time"

// Counter represents a physical traffic counting device at a fixed location.
type Counter struct {
	CounterID    int     `json:"counter_id"`
	CounterCode  string  `json:"counter_code"`
	CounterName  string  `json:"counter_name"`
	Vendor       string  `json:"vendor"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	CounterNotes *string `json:"counter_notes,omitempty"`
}

// Notes returns the counter notes or an empty string.
func (c Counter) Notes() string {
	if c.CounterNotes == nil {
		return ""
	}
	return *c.CounterNotes
}

// DatastreamType is the category of traffic a datastream counts.
type DatastreamType string

const (
	DatastreamPedestrian      DatastreamType = "Pedestrian"
	DatastreamRoadwayCyclist  DatastreamType = "Roadway Cyclist"
	DatastreamSidewalkCyclist DatastreamType = "Sidewalk Cyclist"
	DatastreamCombined        DatastreamType = "Combined"
)

// DatastreamDirection is the direction of flow for a datastream.
type DatastreamDirection string

const (
	DirectionIn         DatastreamDirection = "IN"
	DirectionOut        DatastreamDirection = "OUT"
	DirectionNorthbound DatastreamDirection = "NB"
	DirectionSouthbound DatastreamDirection = "SB"
	DirectionEastbound  DatastreamDirection = "EB"
	DirectionWestbound  DatastreamDirection = "WB"
	DirectionCombined   DatastreamDirection = "COMBINED"
)

// Datastream is one categorized channel of a counter's raw measurements.
type Datastream struct {
	DatastreamID        int                 `json:"datastream_id"`
	CounterID           int                 `json:"counter_id"`
	DatastreamType      DatastreamType      `json:"datastream_type"`
	DatastreamName      string              `json:"datastream_name"`
	DatastreamDirection DatastreamDirection `json:"datastream_direction"`
	DatastreamNotes     *string             `json:"datastream_notes,omitempty"`
}

// Count is a single recorded activity event logged by a datastream.
// The maxday/maxhour/gap/zero flags carry the non-statistical QAQC
// checks and stat the statistical model check (1 pass, 0 fail).
type Count struct {
	CountID      int       `json:"count_id"`
	DatastreamID int       `json:"datastream_id"`
	DateTime     time.Time `json:"date_time"`
	RawCount     *int      `json:"raw_count"`
	MaxDay       *int      `json:"maxday"`
	MaxHour      *int      `json:"maxhour"`
	Gap          *int      `json:"gap"`
	Zero         *int      `json:"zero"`
	Stat         *int      `json:"stat"`
	CleanedCount *float64  `json:"cleaned_count"`
}
