package codec

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/urltodo/internal/domain"
)

type xmlDocument struct {
	XMLName xml.Name    `xml:"urls"`
	URLs    []xmlRecord `xml:"url"`
}

type xmlRecord struct {
	ID          string  `xml:"ID"`
	URL         *string `xml:"URL"`
	Description string  `xml:"Description"`
	Category    string  `xml:"Category"`
	Status      string  `xml:"Status"`
	Timestamp   string  `xml:"Timestamp"`
}

func encodeXML(w io.Writer, records []*domain.Record) error {
	doc := xmlDocument{URLs: make([]xmlRecord, 0, len(records))}
	for _, r := range records {
		url := r.URL
		doc.URLs = append(doc.URLs, xmlRecord{
			ID:          strconv.FormatInt(r.ID, 10),
			URL:         &url,
			Description: r.Description,
			Category:    r.Category,
			Status:      domain.FormatStatus(r.Read),
			Timestamp:   formatTimestamp(r.Timestamp),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func decodeXML(r io.Reader) ([]domain.Record, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse xml: %w", err)
	}

	records := make([]domain.Record, 0, len(doc.URLs))
	for i, e := range doc.URLs {
		if e.URL == nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, errMissingURL)
		}

		var id int64
		if s := strings.TrimSpace(e.ID); s != "" {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("entry %d: invalid ID %q", i+1, s)
			}
			id = n
		}

		records = append(records, domain.Record{
			ID:          id,
			URL:         *e.URL,
			Description: e.Description,
			Category:    e.Category,
			Read:        domain.ParseStatus(e.Status),
			Timestamp:   parseTimestamp(strings.TrimSpace(e.Timestamp)),
		})
	}
	return records, nil
}
