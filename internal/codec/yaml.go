package codec

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/urltodo/internal/domain"
)

type yamlRecord struct {
	ID          int64      `yaml:"ID"`
	URL         *string    `yaml:"URL"`
	Description string     `yaml:"Description"`
	Category    string     `yaml:"Category"`
	Status      yamlStatus `yaml:"Status"`
	Timestamp   string     `yaml:"Timestamp"`
}

// yamlStatus reads any scalar through domain.ParseStatus.
type yamlStatus bool

func (s *yamlStatus) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: Status must be a scalar", value.Line)
	}
	*s = yamlStatus(domain.ParseStatus(value.Value))
	return nil
}

func encodeYAML(w io.Writer, records []*domain.Record) error {
	out := make([]yamlRecord, 0, len(records))
	for _, r := range records {
		url := r.URL
		out = append(out, yamlRecord{
			ID:          r.ID,
			URL:         &url,
			Description: r.Description,
			Category:    r.Category,
			Status:      yamlStatus(r.Read),
			Timestamp:   formatTimestamp(r.Timestamp),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

func decodeYAML(r io.Reader) ([]domain.Record, error) {
	var entries []yamlRecord
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
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
