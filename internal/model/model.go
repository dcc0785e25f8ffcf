// Package model defines the values that flow through one run: feed items pulled from a source and the chapters built from them.
package model

// Item is one feed entry. Content and Link are empty when the feed omits them.
type Item struct {
	Title   string
	Content string
	Link    string
	FeedURL string
}

type Chapter struct {
	Filename string
	Body     string
}
