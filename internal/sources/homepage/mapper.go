package homepage

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/urltodo/internal/domain"
)

// Mapper converts Homepage services to records.
// The Homepage group becomes the category.
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapRecords converts a ServicesConfig to records, in file order.
// Services without href are skipped; URL syntax is checked on insert.
func (m *Mapper) MapRecords(config ServicesConfig) ([]domain.Record, error) {
	var records []domain.Record

	for _, groupMap := range config {
		for groupName, servicesList := range groupMap {
			for _, serviceMap := range servicesList {
				for serviceName, props := range serviceMap {
					href := strings.TrimSpace(props.Href)
					if href == "" {
						continue
					}

					records = append(records, domain.Record{
						URL:         href,
						Description: describe(serviceName, props.Description),
						Category:    groupName,
					})
				}
			}
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no valid services found in homepage config")
	}

	return records, nil
}

// describe joins the entry name with its optional description.
// Example: ("Traefik", "Reverse proxy") -> "Traefik - Reverse proxy"
func describe(name, description string) string {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	switch {
	case description == "":
		return name
	case name == "":
		return description
	default:
		return name + " - " + description
	}
}
