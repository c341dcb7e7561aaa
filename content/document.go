// Package content loads MDX blog documents from disk into an immutable,
// in-memory collection.
package content

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when no document matches a slug.
var ErrNotFound = errors.New("content: document not found")

// Document is one content entry with validated front matter and a derived slug.
type Document struct {
	Title       string
	Description string
	PublishDate time.Time
	ModifyDate  time.Time // zero when absent
	Tags        []string
	Draft       bool

	Slug        string
	Body        string
	SourcePath  string // relative to the content root, slash separated
	Fingerprint string
}

// LastModified returns ModifyDate when set, PublishDate otherwise.
func (d Document) LastModified() time.Time {
	if !d.ModifyDate.IsZero() {
		return d.ModifyDate
	}
	return d.PublishDate
}

// HasTag reports whether the document carries tag, compared case-insensitively.
func (d Document) HasTag(tag string) bool {
	want := NormalizeTag(tag)
	for _, t := range d.Tags {
		if NormalizeTag(t) == want {
			return true
		}
	}
	return false
}

// NormalizeTag lowercases and trims a tag for comparison.
func NormalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// Collection is a read-only set of documents. It is never mutated after
// construction, so concurrent readers need no synchronization.
type Collection struct {
	docs   []Document
	bySlug map[string]int
	dupes  []string
}

// NewCollection builds a Collection from docs in the given order. When two
// documents share a slug the first one wins and the slug is reported by
// Shadowed.
func NewCollection(docs []Document) *Collection {
	c := &Collection{
		docs:   make([]Document, len(docs)),
		bySlug: make(map[string]int, len(docs)),
	}
	copy(c.docs, docs)
	for i, d := range c.docs {
		if _, ok := c.bySlug[d.Slug]; ok {
			c.dupes = append(c.dupes, d.Slug)
			continue
		}
		c.bySlug[d.Slug] = i
	}
	return c
}

// Len returns the number of documents, drafts included.
func (c *Collection) Len() int {
	return len(c.docs)
}

// All returns every document in reader order.
func (c *Collection) All() []Document {
	out := make([]Document, len(c.docs))
	copy(out, c.docs)
	return out
}

// Get returns the document with the exact slug, or ErrNotFound.
func (c *Collection) Get(slug string) (Document, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Document{}, ErrNotFound
	}
	return c.docs[i], nil
}

// Shadowed returns slugs that more than one document derived.
func (c *Collection) Shadowed() []string {
	return append([]string(nil), c.dupes...)
}

// Listing returns the visible documents sorted by publish date, newest first.
// Drafts are only included when includeDrafts is set.
func (c *Collection) Listing(includeDrafts bool) []Document {
	out := make([]Document, 0, len(c.docs))
	for i, d := range c.docs {
		if d.Draft && !includeDrafts {
			continue
		}
		// shadowed duplicates are unreachable by slug; keep them out of listings too
		if c.bySlug[d.Slug] != i {
			continue
		}
		out = append(out, d)
	}
	SortByPublishDate(out)
	return out
}

// Tags returns the sorted, deduplicated, lowercased tags of visible documents.
func (c *Collection) Tags(includeDrafts bool) []string {
	set := make(map[string]struct{})
	for _, d := range c.Listing(includeDrafts) {
		for _, t := range d.Tags {
			if n := NormalizeTag(t); n != "" {
				set[n] = struct{}{}
			}
		}
	}
	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// SortByPublishDate orders docs by descending publish date, breaking ties by slug.
func SortByPublishDate(docs []Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].PublishDate.Equal(docs[j].PublishDate) {
			return docs[i].PublishDate.After(docs[j].PublishDate)
		}
		return docs[i].Slug < docs[j].Slug
	})
}
