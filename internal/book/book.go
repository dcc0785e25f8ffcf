// Package book accumulates chapters in memory and writes them out as an EPUB container.
package book

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-shiori/go-epub"
	"github.com/google/uuid"

	"github.com/0x0BSoD/rss2epub/internal/model"
)

const (
	filenamePrefix = "aa"
	filenameExt    = ".xhtml"
)

var titleReplacer = strings.NewReplacer("/", "_", " ", "_", "'", "_")

type Book struct {
	epub     *epub.Epub
	used     map[string]struct{}
	chapters []model.Chapter
}

func New(title, author string) (*Book, error) {
	e, err := epub.NewEpub(title)
	if err != nil {
		return nil, fmt.Errorf("create epub: %w", err)
	}

	e.SetAuthor(author)
	e.SetIdentifier("urn:uuid:" + uuid.NewString())

	return &Book{
		epub: e,
		used: make(map[string]struct{}),
	}, nil
}

// AddChapter wraps body in a single <p> and appends it under a filename derived
// from title. When the filename is taken, a -2, -3, ... suffix is appended.
func (b *Book) AddChapter(title, body string) (model.Chapter, error) {
	filename := b.uniqueFilename(Filename(title))
	chapter := model.Chapter{
		Filename: filename,
		Body:     "<p>" + body + "</p>",
	}

	if _, err := b.epub.AddSection(chapter.Body, chapter.Filename, chapter.Filename, ""); err != nil {
		return model.Chapter{}, fmt.Errorf("add chapter %s: %w", chapter.Filename, err)
	}

	b.used[filename] = struct{}{}
	b.chapters = append(b.chapters, chapter)

	return chapter, nil
}

func (b *Book) uniqueFilename(filename string) string {
	if _, ok := b.used[filename]; !ok {
		return filename
	}

	base := strings.TrimSuffix(filename, filenameExt)
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n) + filenameExt
		if _, ok := b.used[candidate]; !ok {
			return candidate
		}
	}
}

func (b *Book) Chapters() []model.Chapter {
	return b.chapters
}

// Write serializes the book to path, replacing any existing file.
func (b *Book) Write(path string) error {
	if err := b.epub.Write(path); err != nil {
		return fmt.Errorf("write epub %s: %w", path, err)
	}

	return nil
}

// CleanTitle drops ':', '?', '%' and every non-ASCII rune, then turns spaces,
// slashes and apostrophes into underscores.
func CleanTitle(title string) string {
	stripped := strings.Map(func(r rune) rune {
		switch {
		case r > 0x7f, r == ':', r == '?', r == '%':
			return -1
		default:
			return r
		}
	}, title)

	return titleReplacer.Replace(stripped)
}

func Filename(title string) string {
	return filenamePrefix + CleanTitle(title) + filenameExt
}
