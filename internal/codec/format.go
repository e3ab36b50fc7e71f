package codec

import (
	"fmt"
	"strings"
)

// Format names a file representation of the list.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	XML  Format = "xml"
	YAML Format = "yaml"

	// Homepage is a gethomepage.dev bookmarks.yaml file. Import only.
	Homepage Format = "homepage"
	// HomepageServices is a gethomepage.dev services.yaml file. Import only.
	HomepageServices Format = "homepage-services"
)

// Field names, in the fixed column order used by every format.
const (
	FieldID          = "ID"
	FieldURL         = "URL"
	FieldDescription = "Description"
	FieldCategory    = "Category"
	FieldStatus      = "Status"
	FieldTimestamp   = "Timestamp"
)

// Columns is the field order of an exported record.
var Columns = []string{FieldID, FieldURL, FieldDescription, FieldCategory, FieldStatus, FieldTimestamp}

// ExportFormats lists the formats Export accepts.
var ExportFormats = []Format{CSV, JSON, XML, YAML}

// ImportFormats lists the formats Decode accepts.
var ImportFormats = []Format{CSV, JSON, XML, YAML, Homepage, HomepageServices}

// ParseFormat resolves a user supplied format name (case-insensitive, "yml" allowed).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, JSON, XML, YAML, Homepage, HomepageServices:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// CanExport reports whether f can be written.
func (f Format) CanExport() bool {
	for _, e := range ExportFormats {
		if e == f {
			return true
		}
	}
	return false
}

func (f Format) String() string { return string(f) }
