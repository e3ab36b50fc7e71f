// Package codec converts records to and from CSV, JSON, XML and YAML files.
//
// Every format carries the same fields in the same order:
// ID, URL, Description, Category, Status, Timestamp.
// Decoding is all-or-nothing per file: a malformed file or an entry without
// a URL field fails the whole decode before anything is imported.
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/MrSnakeDoc/urltodo/internal/domain"
	"github.com/MrSnakeDoc/urltodo/internal/sources/homepage"
	"github.com/MrSnakeDoc/urltodo/internal/utils"
)

var errMissingURL = errors.New("missing URL field")

// Encode writes records to w in the given format.
func Encode(w io.Writer, format Format, records []*domain.Record) error {
	switch format {
	case CSV:
		return encodeCSV(w, records)
	case JSON:
		return encodeJSON(w, records)
	case XML:
		return encodeXML(w, records)
	case YAML:
		return encodeYAML(w, records)
	default:
		return fmt.Errorf("format %q cannot be exported", format)
	}
}

// Decode reads every entry from r.
func Decode(r io.Reader, format Format) ([]domain.Record, error) {
	switch format {
	case CSV:
		return decodeCSV(r)
	case JSON:
		return decodeJSON(r)
	case XML:
		return decodeXML(r)
	case YAML:
		return decodeYAML(r)
	case Homepage:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		cfg, err := homepage.ParseBookmarks(data)
		if err != nil {
			return nil, err
		}
		return homepage.NewBookmarkMapper().MapRecords(cfg)
	case HomepageServices:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		cfg, err := homepage.ParseServices(data)
		if err != nil {
			return nil, err
		}
		return homepage.NewMapper().MapRecords(cfg)
	default:
		return nil, fmt.Errorf("format %q cannot be imported", format)
	}
}

// Export writes records to path. The file is written next to its final
// location and renamed into place, so a failure never leaves a truncated
// file behind and never touches an existing file at path.
func Export(path string, format Format, records []*domain.Record) error {
	if err := writeAtomic(path, func(w io.Writer) error {
		return Encode(w, format, records)
	}); err != nil {
		return &domain.ExportError{Path: path, Format: format.String(), Err: err}
	}
	return nil
}

// DecodeFile reads every entry of the file at path.
func DecodeFile(path string, format Format) (records []domain.Record, err error) {
	if format == Homepage || format == HomepageServices {
		records, err = loadHomepage(path, format)
		if err != nil {
			return nil, &domain.ImportError{Path: path, Format: format.String(), Err: err}
		}
		return records, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ImportError{Path: path, Format: format.String(), Err: err}
	}
	defer utils.Close(f)

	records, err = Decode(bufio.NewReader(f), format)
	if err != nil {
		return nil, &domain.ImportError{Path: path, Format: format.String(), Err: err}
	}
	return records, nil
}

func loadHomepage(path string, format Format) ([]domain.Record, error) {
	loader := homepage.NewLoader(path)
	if format == HomepageServices {
		cfg, err := loader.LoadServices()
		if err != nil {
			return nil, err
		}
		return homepage.NewMapper().MapRecords(cfg)
	}
	cfg, err := loader.LoadBookmarks()
	if err != nil {
		return nil, err
	}
	return homepage.NewBookmarkMapper().MapRecords(cfg)
}

func writeAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if err = writeAndClose(tmp, write); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func writeAndClose(f *os.File, write func(w io.Writer) error) (err error) {
	defer utils.CloseInto(f, &err)

	bw := bufio.NewWriter(f)
	if err = write(bw); err != nil {
		return err
	}
	return bw.Flush()
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseTimestamp is lenient: an unreadable timestamp is dropped, since
// imports never carry it over.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
