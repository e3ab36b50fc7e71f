package homepage

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/urltodo/internal/domain"
)

// BookmarkMapper converts Homepage bookmark config to records
type BookmarkMapper struct{}

// NewBookmarkMapper creates a new bookmark mapper
func NewBookmarkMapper() *BookmarkMapper {
	return &BookmarkMapper{}
}

// MapRecords converts BookmarksConfig to records, in file order.
// The bookmark category becomes the record category.
func (m *BookmarkMapper) MapRecords(config BookmarksConfig) ([]domain.Record, error) {
	var records []domain.Record

	for _, category := range config {
		for categoryName, bookmarkList := range category {
			for _, bookmarkMap := range bookmarkList {
				for bookmarkName, entryList := range bookmarkMap {
					// Each bookmark has a list with a single entry
					if len(entryList) == 0 {
						continue
					}
					entry := entryList[0]

					href := strings.TrimSpace(entry.Href)
					if href == "" {
						continue
					}

					// Use the bookmark name, falling back to Abbr
					name := bookmarkName
					if strings.TrimSpace(name) == "" {
						name = entry.Abbr
					}

					records = append(records, domain.Record{
						URL:         href,
						Description: describe(name, entry.Description),
						Category:    categoryName,
					})
				}
			}
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no valid bookmarks found in config")
	}

	return records, nil
}
