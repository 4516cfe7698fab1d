// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package listing reads a browsable directory page from the file server and
// returns the sequence description files it links to.
package listing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/emmdb/internal/httputil"
)

// Options controls which linked files are returned.
type Options struct {
	// Extension keeps links whose target ends with it (e.g. ".sds").
	Extension string

	// Prefix keeps base names starting with it (e.g. "emm"). Empty keeps all.
	Prefix string

	// MaxFiles truncates the result. Zero or negative disables the cap.
	MaxFiles int

	UserAgent  string
	MaxRetries int
}

// Client lists candidate files from a directory page.
type Client struct {
	http *http.Client
	opts Options
}

// New returns a Client that fetches pages with c.
func New(c *http.Client, opts Options) *Client {
	return &Client{http: c, opts: opts}
}

// List fetches the page at url and returns the candidate file names in
// page order. Transport failures and non-200 responses are returned as
// errors with no partial result.
func (c *Client) List(ctx context.Context, url string) ([]string, error) {
	resp, err := httputil.Get(ctx, c.http, url, c.opts.UserAgent, c.opts.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("fetching listing: %w", err)
	}
	defer resp.Body.Close()

	names, err := ParseLinks(resp.Body, c.opts.Extension)
	if err != nil {
		return nil, err
	}
	return Select(names, c.opts.Prefix, c.opts.MaxFiles), nil
}

// ParseLinks returns the base name of every anchor target in the markup
// that ends with ext, in document order. Duplicates are kept.
func ParseLinks(r io.Reader, ext string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing listing: %w", err)
	}

	var names []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || !strings.HasSuffix(href, ext) {
			return
		}
		names = append(names, path.Base(href))
	})
	return names, nil
}

// Select keeps names starting with prefix and truncates the result to max
// entries when max is positive. Order is preserved.
func Select(names []string, prefix string, max int) []string {
	selected := make([]string, 0, len(names))
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			selected = append(selected, n)
		}
	}
	if max > 0 && len(selected) > max {
		selected = selected[:max]
	}
	return selected
}
