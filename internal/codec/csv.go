package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/urltodo/internal/domain"
)

func encodeCSV(w io.Writer, records []*domain.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.URL,
			r.Description,
			r.Category,
			domain.FormatStatus(r.Read),
			formatTimestamp(r.Timestamp),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// decodeCSV locates columns by header name, so files written by older
// layouts (no Category or Timestamp column) still import.
func decodeCSV(r io.Reader) ([]domain.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file: missing header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		index[strings.ToLower(name)] = i
	}
	if _, ok := index[strings.ToLower(FieldURL)]; !ok {
		return nil, fmt.Errorf("header: %w", errMissingURL)
	}

	field := func(row []string, name string) string {
		i, ok := index[strings.ToLower(name)]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]domain.Record, 0)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if i := index[strings.ToLower(FieldURL)]; i >= len(row) {
			return nil, fmt.Errorf("line %d: %w", line, errMissingURL)
		}

		var id int64
		if s := field(row, FieldID); s != "" {
			if id, err = strconv.ParseInt(s, 10, 64); err != nil {
				return nil, fmt.Errorf("line %d: invalid ID %q", line, s)
			}
		}

		records = append(records, domain.Record{
			ID:          id,
			URL:         field(row, FieldURL),
			Description: field(row, FieldDescription),
			Category:    field(row, FieldCategory),
			Read:        domain.ParseStatus(field(row, FieldStatus)),
			Timestamp:   parseTimestamp(field(row, FieldTimestamp)),
		})
	}
	return records, nil
}
