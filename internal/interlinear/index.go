package interlinear

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"github.com/handiism/interlinear-downloader/internal/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

// PageGetter fetches the body of an HTML page.
//
// *http.Client from internal/http satisfies it.
type PageGetter interface {
	GetHTML(ctx context.Context, url string) ([]byte, error)
}

// IndexFetcher retrieves index pages and extracts the document links on them.
//
// Example usage:
//
//	fetcher := NewIndexFetcher(http.NewClient(http.Options{}), log)
//	links, err := fetcher.FetchLinks(ctx, indexURL, OldTestament.Filter)
//	if err != nil {
//	    return fmt.Errorf("fetch OT index: %w", err)
//	}
type IndexFetcher struct {
	client PageGetter
	log    *logrus.Entry
}

// NewIndexFetcher creates an IndexFetcher that issues its requests through client.
func NewIndexFetcher(client PageGetter, log *logrus.Entry) *IndexFetcher {
	return &IndexFetcher{client: client, log: log}
}

// FetchLinks issues one GET to indexURL and returns the href of every anchor
// accepted by filter, in document order.
//
// Network failures, non-2xx statuses and non-HTML responses are returned as
// errors. Nothing is retried.
func (f *IndexFetcher) FetchLinks(ctx context.Context, indexURL string, filter LinkFilter) ([]string, error) {
	f.log.WithField("url", indexURL).Debug("fetching index page")

	body, err := f.client.GetHTML(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch index %s: %w", indexURL, err)
	}

	links, err := ExtractLinks(bytes.NewReader(body), filter)
	if err != nil {
		return nil, fmt.Errorf("parse index %s: %w", indexURL, err)
	}

	f.log.WithFields(logrus.Fields{"url": indexURL, "links": len(links)}).Info("index page parsed")
	return links, nil
}

// FetchCategory fetches the index page of c under baseURL and returns its
// links tagged with the category.
func (f *IndexFetcher) FetchCategory(ctx context.Context, baseURL string, c Category) ([]model.ResourceLink, error) {
	indexURL, err := c.IndexURL(baseURL)
	if err != nil {
		return nil, err
	}

	hrefs, err := f.FetchLinks(ctx, indexURL, c.Filter)
	if err != nil {
		return nil, err
	}

	links := make([]model.ResourceLink, len(hrefs))
	for i, href := range hrefs {
		links[i] = model.ResourceLink{Href: href, Category: c.Name, Dir: c.Dir}
	}
	return links, nil
}

// ExtractLinks parses an HTML document and returns the href attribute of
// every <a> element accepted by filter, in document order.
//
// Anchors without an href, or with an empty one, are never passed to the
// filter.
func ExtractLinks(r io.Reader, filter LinkFilter) ([]string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	links := make([]string, 0)
	goquery.NewDocumentFromNode(root).Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		if filter.Matches(href) {
			links = append(links, href)
		}
	})
	return links, nil
}
