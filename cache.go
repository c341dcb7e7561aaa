package portfolio

import (
	"sync"

	"github.com/amandeeptherockstar/portfolio/content"
)

// ContentCache holds the current content snapshot. Snapshots are immutable;
// a reload swaps in a new one and readers holding the old one are unaffected.
type ContentCache struct {
	mu            sync.RWMutex
	col           *content.Collection
	includeDrafts bool
}

// NewContentCache creates a ContentCache serving col.
func NewContentCache(col *content.Collection, includeDrafts bool) *ContentCache {
	if col == nil {
		col = content.NewCollection(nil)
	}
	return &ContentCache{col: col, includeDrafts: includeDrafts}
}

// Snapshot returns the current collection.
func (c *ContentCache) Snapshot() *content.Collection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.col
}

// Replace swaps in a freshly loaded collection.
func (c *ContentCache) Replace(col *content.Collection) {
	c.mu.Lock()
	c.col = col
	c.mu.Unlock()
}

// ListDocuments returns visible documents newest first, optionally
// filtered by tag.
func (c *ContentCache) ListDocuments(tag string) []content.Document {
	docs := c.Snapshot().Listing(c.includeDrafts)
	if tag == "" {
		return docs
	}
	var filtered []content.Document
	for _, d := range docs {
		if d.HasTag(tag) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// ListTags returns all unique tags from visible documents.
func (c *ContentCache) ListTags() []string {
	return c.Snapshot().Tags(c.includeDrafts)
}

// GetDocument returns a document by slug. Drafts resolve in every mode;
// they are only hidden from listings.
func (c *ContentCache) GetDocument(slug string) (content.Document, error) {
	return c.Snapshot().Get(slug)
}
