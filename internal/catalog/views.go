// ABOUTME: Read-only result records handed to transports.
// ABOUTME: JSON names match the catalog's public HTTP contract.

package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Section is a derived grouping of articles that share one tag set.
type Section struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Tags          []string  `json:"tags"`
	ArticlesCount int       `json:"articlesCount"`
}

// ArticleView is an article with its tag display names in stored order.
type ArticleView struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"createdAtUtc"`
	UpdatedAt *time.Time `json:"updatedAtUtc"`
	Tags      []string   `json:"tags"`
}

// SortTime is UpdatedAt when set, CreatedAt otherwise.
func (v ArticleView) SortTime() time.Time {
	if v.UpdatedAt != nil {
		return *v.UpdatedAt
	}
	return v.CreatedAt
}
