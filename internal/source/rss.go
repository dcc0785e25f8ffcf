// Package source implements the RSSSource struct and its methods for fetching and parsing feed documents.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"

	"github.com/0x0BSoD/rss2epub/internal/model"
)

// ErrUnexpectedStatus is returned for any non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected status")

type RSSSource struct {
	URL    string
	client *http.Client
	parser *gofeed.Parser
}

func NewRSSSource(url string, client *http.Client) RSSSource {
	return RSSSource{
		URL:    url,
		client: client,
		parser: gofeed.NewParser(),
	}
}

// Fetch downloads the feed and returns every item in document order,
// including items without a guid or link and items sharing a link.
func (s RSSSource) Fetch(ctx context.Context) ([]model.Item, error) {
	feed, err := s.loadFeed(ctx)
	if err != nil {
		return nil, err
	}

	return lo.Map(feed.Items, func(item *gofeed.Item, _ int) model.Item {
		return model.Item{
			Title:   strings.TrimSpace(item.Title),
			Content: strings.TrimSpace(item.Content),
			Link:    strings.TrimSpace(item.Link),
			FeedURL: s.URL,
		}
	}), nil
}

func (s RSSSource) loadFeed(ctx context.Context) (*gofeed.Feed, error) {
	body, err := Get(ctx, s.client, s.URL)
	if err != nil {
		return nil, err
	}

	feed, err := s.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", s.URL, err)
	}

	return feed, nil
}

// Get performs a GET bound to ctx and returns the whole body.
func Get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: %w: %d", url, ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	return body, nil
}

func (s RSSSource) Name() string {
	return s.URL
}
