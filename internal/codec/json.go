package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MrSnakeDoc/urltodo/internal/domain"
)

// jsonRecord keeps the fixed key order of an exported record.
type jsonRecord struct {
	ID          int64  `json:"ID"`
	URL         string `json:"URL"`
	Description string `json:"Description"`
	Category    string `json:"Category"`
	Status      bool   `json:"Status"`
	Timestamp   string `json:"Timestamp"`
}

type jsonEntry struct {
	ID          int64      `json:"ID"`
	URL         *string    `json:"URL"`
	Description string     `json:"Description"`
	Category    string     `json:"Category"`
	Status      jsonStatus `json:"Status"`
	Timestamp   string     `json:"Timestamp"`
}

// jsonStatus accepts a JSON boolean or a string such as "True".
type jsonStatus bool

func (s *jsonStatus) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = false
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = jsonStatus(domain.ParseStatus(str))
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("invalid Status %s", data)
	}
	*s = jsonStatus(b)
	return nil
}

func encodeJSON(w io.Writer, records []*domain.Record) error {
	out := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		out = append(out, jsonRecord{
			ID:          r.ID,
			URL:         r.URL,
			Description: r.Description,
			Category:    r.Category,
			Status:      r.Read,
			Timestamp:   formatTimestamp(r.Timestamp),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(out)
}

func decodeJSON(r io.Reader) ([]domain.Record, error) {
	var entries []jsonEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}

	records := make([]domain.Record, 0, len(entries))
	for i, e := range entries {
		if e.URL == nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, errMissingURL)
		}
		records = append(records, domain.Record{
			ID:          e.ID,
			URL:         *e.URL,
			Description: e.Description,
			Category:    e.Category,
			Read:        bool(e.Status),
			Timestamp:   parseTimestamp(e.Timestamp),
		})
	}
	return records, nil
}
