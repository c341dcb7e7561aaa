package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/inful/mdfp"
)

// Defaults mirror the blog layout: <root>/blog/**/*.mdx with slugs relative to blog/.
const (
	DefaultPattern    = "blog/**/*.mdx"
	DefaultSlugPrefix = "blog/"
)

// Options configures Load.
type Options struct {
	Root       string       // content directory
	Pattern    string       // doublestar glob relative to Root
	SlugPrefix string       // stripped from the flattened path to form the slug
	Logger     *slog.Logger // optional
}

func (o *Options) setDefaults() {
	if o.Pattern == "" {
		o.Pattern = DefaultPattern
	}
	if o.SlugPrefix == "" {
		o.SlugPrefix = DefaultSlugPrefix
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Load scans opts.Root for files matching opts.Pattern and returns the full
// collection. Any invalid document fails the load; every BuildError found is
// returned joined.
func Load(ctx context.Context, opts Options) (*Collection, error) {
	opts.setDefaults()
	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("content root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content root %s is not a directory", opts.Root)
	}
	return LoadFS(ctx, os.DirFS(opts.Root), opts)
}

// LoadFS is Load over an arbitrary filesystem rooted at the content directory.
func LoadFS(ctx context.Context, fsys fs.FS, opts Options) (*Collection, error) {
	opts.setDefaults()

	matches, err := doublestar.Glob(fsys, opts.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", opts.Pattern, err)
	}
	sort.Strings(matches)

	var (
		docs []Document
		errs []error
	)
	for _, p := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			errs = append(errs, &BuildError{Path: p, Reason: "read failed", Err: err})
			continue
		}
		doc, err := ParseDocument(p, src, opts.SlugPrefix)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		docs = append(docs, doc)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	c := NewCollection(docs)
	for _, slug := range c.Shadowed() {
		opts.Logger.Warn("duplicate slug shadows a later document", "slug", slug)
	}
	opts.Logger.Debug("content loaded", "pattern", opts.Pattern, "documents", c.Len())
	return c, nil
}

// ParseDocument validates the front matter of src and builds a Document.
// relPath is the slash-separated path relative to the content root.
func ParseDocument(relPath string, src []byte, slugPrefix string) (Document, error) {
	fmRaw, body, format, err := Split(src)
	if err != nil {
		return Document{}, &BuildError{Path: relPath, Reason: "invalid front matter", Err: err}
	}
	fields := map[string]any{}
	if format != FormatNone {
		fields, err = ParseFields(fmRaw, format)
		if err != nil {
			return Document{}, &BuildError{Path: relPath, Reason: "invalid " + format + " front matter", Err: err}
		}
	}

	doc := Document{
		SourcePath:  relPath,
		Body:        string(body),
		Slug:        Slug(relPath, slugPrefix),
		Fingerprint: mdfp.CalculateFingerprintFromParts(string(fmRaw), string(body)),
	}
	var errs []error

	switch v, ok := fields["title"]; {
	case !ok || v == nil:
		errs = append(errs, fieldError(relPath, "title", "required field is missing"))
	default:
		s, isStr := v.(string)
		if !isStr || strings.TrimSpace(s) == "" {
			errs = append(errs, fieldError(relPath, "title", "must be a non-empty string"))
		}
		doc.Title = s
	}

	if v, ok := fields["description"]; ok && v != nil {
		s, isStr := v.(string)
		if !isStr {
			errs = append(errs, fieldError(relPath, "description", "must be a string"))
		}
		doc.Description = s
	}

	switch v, ok := fields["publishDate"]; {
	case !ok || v == nil:
		errs = append(errs, fieldError(relPath, "publishDate", "required field is missing"))
	default:
		t, valid := parseDate(v)
		if !valid {
			errs = append(errs, fieldError(relPath, "publishDate", fmt.Sprintf("invalid date %v", v)))
		}
		doc.PublishDate = t
	}

	if v, ok := fields["modifyDate"]; ok && v != nil {
		t, valid := parseDate(v)
		if !valid {
			errs = append(errs, fieldError(relPath, "modifyDate", fmt.Sprintf("invalid date %v", v)))
		}
		doc.ModifyDate = t
	}

	switch v, ok := fields["tags"]; {
	case !ok:
		errs = append(errs, fieldError(relPath, "tags", "required field is missing"))
	default:
		tags, valid := stringList(v)
		if !valid {
			errs = append(errs, fieldError(relPath, "tags", "must be a list of strings"))
		}
		doc.Tags = tags
	}

	if v, ok := fields["draft"]; ok && v != nil {
		b, isBool := v.(bool)
		if !isBool {
			errs = append(errs, fieldError(relPath, "draft", "must be a boolean"))
		}
		doc.Draft = b
	}

	if len(errs) > 0 {
		return Document{}, errors.Join(errs...)
	}
	return doc, nil
}

// FlattenedPath drops the extension and a trailing "/index" from relPath.
func FlattenedPath(relPath string) string {
	p := strings.TrimSuffix(relPath, path.Ext(relPath))
	if p == "index" {
		return ""
	}
	return strings.TrimSuffix(p, "/index")
}

// Slug derives the URL slug: the flattened path with prefix removed.
func Slug(relPath, prefix string) string {
	return strings.TrimPrefix(FlattenedPath(relPath), prefix)
}
