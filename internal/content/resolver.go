// Package content decides the body of each chapter: inline feed content when
// present, otherwise text pulled from the linked article page.
package content

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/0x0BSoD/rss2epub/internal/model"
	"github.com/0x0BSoD/rss2epub/internal/source"
)

const Placeholder = "No content available"

type Sanitizer interface {
	Sanitize(html string) string
}

// Extractor turns a fetched article page into chapter HTML.
type Extractor func(page []byte, pageURL *url.URL) (string, error)

type Resolver struct {
	client    *http.Client
	sanitizer Sanitizer
	extract   Extractor
}

func NewResolver(client *http.Client, sanitizer Sanitizer, extract Extractor) *Resolver {
	if extract == nil {
		extract = Paragraphs
	}

	return &Resolver{
		client:    client,
		sanitizer: sanitizer,
		extract:   extract,
	}
}

// Resolve returns sanitized HTML for the item. A failed article fetch is returned as is;
// the caller decides whether that ends the run.
func (r *Resolver) Resolve(ctx context.Context, item model.Item) (string, error) {
	switch {
	case item.Content != "":
		return r.sanitizer.Sanitize(item.Content), nil
	case item.Link != "":
		text, err := r.fetchFullContent(ctx, item.Link)
		if err != nil {
			return "", err
		}
		return r.sanitizer.Sanitize(text), nil
	default:
		return r.sanitizer.Sanitize(Placeholder), nil
	}
}

func (r *Resolver) fetchFullContent(ctx context.Context, link string) (string, error) {
	pageURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse link %q: %w", link, err)
	}

	page, err := source.Get(ctx, r.client, link)
	if err != nil {
		return "", err
	}

	text, err := r.extract(page, pageURL)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", link, err)
	}

	return text, nil
}

// Paragraphs keeps every <p> of the page in document order, each rewrapped in
// its own <p>. Links inside a paragraph are replaced by their text.
func Paragraphs(page []byte, _ *url.URL) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var (
		sb      strings.Builder
		htmlErr error
	)

	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		p.Find("a").Each(func(_ int, a *goquery.Selection) {
			a.ReplaceWithHtml(html.EscapeString(a.Text()))
		})

		inner, err := p.Html()
		if err != nil {
			htmlErr = fmt.Errorf("render paragraph: %w", err)
			return false
		}

		sb.WriteString("<p>")
		sb.WriteString(inner)
		sb.WriteString("</p>")

		return true
	})
	if htmlErr != nil {
		return "", htmlErr
	}

	return sb.String(), nil
}

// Readability extracts the main article body instead of collecting bare paragraphs.
func Readability(page []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(page), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability: %w", err)
	}

	return article.Content, nil
}
