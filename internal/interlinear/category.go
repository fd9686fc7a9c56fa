package interlinear

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultBaseURL is the root every index page and document link is resolved against.
const DefaultBaseURL = "https://www.scripture4all.org/OnlineInterlinear/"

// ErrUnknownCategory is returned by Lookup for a name that is not a built-in category.
var ErrUnknownCategory = errors.New("unknown category")

// LinkFilter decides whether an href belongs to a resource category.
//
// Matches must return false, never panic, for an empty href.
type LinkFilter interface {
	Matches(href string) bool
}

// PathFilter matches hrefs of the form "<Dir>/<anything><Ext>".
//
// The whole href must match: "OTpdf/gen.pdf" matches {OTpdf, .pdf} but
// "x/OTpdf/gen.pdf" and "OTpdf/gen.pdf#p2" do not.
type PathFilter struct {
	Dir string
	Ext string

	pattern *regexp.Regexp
}

// NewPathFilter compiles a PathFilter for the given directory prefix and extension.
func NewPathFilter(dir, ext string) PathFilter {
	return PathFilter{
		Dir:     dir,
		Ext:     ext,
		pattern: regexp.MustCompile(`^` + regexp.QuoteMeta(dir) + `/.+` + regexp.QuoteMeta(ext) + `$`),
	}
}

// Matches reports whether href is a link into the filter's directory with the
// filter's extension.
func (f PathFilter) Matches(href string) bool {
	if href == "" || f.pattern == nil {
		return false
	}
	return f.pattern.MatchString(href)
}

// Category is a fixed partition of the documents: one index page, one link
// filter and one download subdirectory.
type Category struct {
	// Name is the short identifier used on the command line ("OT", "NT").
	Name string

	// Title is a human readable description.
	Title string

	// IndexPage is the index page path relative to the base URL.
	IndexPage string

	// Dir is the subdirectory documents are saved under.
	Dir string

	// Filter selects the category's links on the index page.
	Filter PathFilter
}

// IndexURL resolves the category's index page against baseURL.
func (c Category) IndexURL(baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL %q: %w", baseURL, err)
	}
	ref, err := url.Parse(c.IndexPage)
	if err != nil {
		return "", fmt.Errorf("parse index page %q: %w", c.IndexPage, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Built-in categories.
var (
	OldTestament = Category{
		Name:      "OT",
		Title:     "Old Testament (Hebrew)",
		IndexPage: "Hebrew_Index.htm",
		Dir:       "OTpdf",
		Filter:    NewPathFilter("OTpdf", ".pdf"),
	}

	NewTestament = Category{
		Name:      "NT",
		Title:     "New Testament (Greek)",
		IndexPage: "Greek_Index.htm",
		Dir:       "NTpdf",
		Filter:    NewPathFilter("NTpdf", ".pdf"),
	}
)

// Categories returns the built-in categories in crawl order.
func Categories() []Category {
	return []Category{OldTestament, NewTestament}
}

// Lookup returns the built-in category with the given name, case-insensitively.
func Lookup(name string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// Select resolves a list of category names. An empty list selects all
// categories.
func Select(names []string) ([]Category, error) {
	if len(names) == 0 {
		return Categories(), nil
	}
	out := make([]Category, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		c, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out, nil
}
