package portfolio

import (
	"errors"
	"testing"
	"time"

	"github.com/amandeeptherockstar/portfolio/content"
)

func cacheDoc(slug string, day int, draft bool, tags ...string) content.Document {
	return content.Document{
		Title:       slug,
		Slug:        slug,
		PublishDate: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Tags:        tags,
		Draft:       draft,
	}
}

func testCollection() *content.Collection {
	return content.NewCollection([]content.Document{
		cacheDoc("old", 1, false, "go"),
		cacheDoc("new", 3, false, "web"),
		cacheDoc("wip", 5, true, "go", "drafts"),
	})
}

func slugs(docs []content.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Slug)
	}
	return out
}

func TestContentCacheListDocuments(t *testing.T) {
	prod := NewContentCache(testCollection(), false)
	if got := slugs(prod.ListDocuments("")); len(got) != 2 || got[0] != "new" || got[1] != "old" {
		t.Errorf("production listing = %v", got)
	}
	dev := NewContentCache(testCollection(), true)
	if got := slugs(dev.ListDocuments("")); len(got) != 3 || got[0] != "wip" {
		t.Errorf("development listing = %v", got)
	}
}

func TestContentCacheTagFilter(t *testing.T) {
	c := NewContentCache(testCollection(), false)
	if got := slugs(c.ListDocuments("go")); len(got) != 1 || got[0] != "old" {
		t.Errorf("tag go = %v", got)
	}
	if got := c.ListDocuments("missing"); len(got) != 0 {
		t.Errorf("unknown tag = %v", slugs(got))
	}
}

func TestContentCacheListTags(t *testing.T) {
	prod := NewContentCache(testCollection(), false)
	for _, tag := range prod.ListTags() {
		if tag == "drafts" {
			t.Error("tags of hidden drafts should not be listed")
		}
	}
	dev := NewContentCache(testCollection(), true)
	found := false
	for _, tag := range dev.ListTags() {
		if tag == "drafts" {
			found = true
		}
	}
	if !found {
		t.Error("development should list draft tags")
	}
}

func TestContentCacheGetDocument(t *testing.T) {
	c := NewContentCache(testCollection(), false)
	if _, err := c.GetDocument("wip"); err != nil {
		t.Errorf("drafts should resolve by slug: %v", err)
	}
	if _, err := c.GetDocument("nope"); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestContentCacheReplace(t *testing.T) {
	c := NewContentCache(testCollection(), false)
	old := c.Snapshot()
	c.Replace(content.NewCollection([]content.Document{cacheDoc("fresh", 9, false)}))

	if got := slugs(c.ListDocuments("")); len(got) != 1 || got[0] != "fresh" {
		t.Errorf("listing after replace = %v", got)
	}
	if old.Len() != 3 {
		t.Errorf("previous snapshot changed: len = %d", old.Len())
	}
}

func TestContentCacheNilCollection(t *testing.T) {
	c := NewContentCache(nil, true)
	if got := c.ListDocuments(""); len(got) != 0 {
		t.Errorf("expected empty listing, got %v", slugs(got))
	}
}
