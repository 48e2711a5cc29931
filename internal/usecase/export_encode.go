package usecase

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/counter-map/internal/domain"
)

// recordField is one key/value cell of a tabular export. A nil value
// encodes as an empty cell.
type recordField struct {
	key   string
	value *string
}

func strPtr(s string) *string { return &s }

// counterFields flattens a counter into export cells in wire-field order.
func counterFields(c domain.Counter) []recordField {
	return []recordField{
		{"counter_id", strPtr(strconv.Itoa(c.CounterID))},
		{"counter_code", strPtr(c.CounterCode)},
		{"counter_name", strPtr(c.CounterName)},
		{"vendor", strPtr(c.Vendor)},
		{"latitude", strPtr(strconv.FormatFloat(c.Latitude, 'f', -1, 64))},
		{"longitude", strPtr(strconv.FormatFloat(c.Longitude, 'f', -1, 64))},
		{"counter_notes", c.CounterNotes},
	}
}

// metadataTable builds the header (union of all keys across records, in
// first-encountered order) and one row per record aligned to it.
func metadataTable(counters []domain.Counter) (header []string, rows [][]string) {
	seen := make(map[string]int)

	records := make([][]recordField, len(counters))
	for i, c := range counters {
		records[i] = counterFields(c)
		for _, f := range records[i] {
			if _, ok := seen[f.key]; !ok {
				seen[f.key] = len(header)
				header = append(header, f.key)
			}
		}
	}

	rows = make([][]string, len(records))
	for i, fields := range records {
		row := make([]string, len(header))
		for _, f := range fields {
			if f.value != nil {
				row[seen[f.key]] = *f.value
			}
		}
		rows[i] = row
	}
	return header, rows
}

// metadataCSV encodes the store as CSV. encoding/csv applies the
// required quoting: fields containing a comma, quote or newline are
// quoted with inner quotes doubled.
func metadataCSV(counters []domain.Counter) ([]byte, error) {
	header, rows := metadataTable(counters)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const xlsxSheet = "Counters"

// metadataXLSX encodes the store as a spreadsheet using the stream
// writer, one header row plus one row per counter.
func metadataXLSX(counters []domain.Counter) ([]byte, error) {
	header, rows := metadataTable(counters)

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(xlsxSheet); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	sw, err := f.NewStreamWriter(xlsxSheet)
	if err != nil {
		return nil, err
	}

	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := sw.SetRow("A1", headerCells); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return nil, err
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
