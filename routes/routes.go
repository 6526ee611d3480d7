/*
Package routes derives the public article URLs of the blog from its content tree.

Articles are stored two levels deep, one folder per publication date:

	content/articles/2023-01-01/my-post.md

Each file becomes the route "/articles/2023-01-01/my-post". The ".md" suffix is
removed from the slug; any other suffix is kept as-is, and files are not filtered
by type, so a stray "notes.txt" becomes "/articles/2023-01-01/notes.txt".

Directory access goes through a Lister so callers (and tests) can supply the
listing without touching the disk. DirLister provides one over any fs.FS.
*/
package routes

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// Prefix is the URL path segment all article routes start with.
const Prefix = "/articles"

// DefaultRoutes are the fixed routes rendered ahead of the articles.
var DefaultRoutes = []string{"/about", "/"}

// Article is a single file found under the articles root.
type Article struct {
	Date     string // name of the date folder
	Filename string // name of the file inside the date folder
}

// Slug returns the final URL path segment for the article.
func (a Article) Slug() string {
	return Slug(a.Filename)
}

// URL returns the public route of the article.
func (a Article) URL() string {
	return Prefix + "/" + a.Date + "/" + a.Slug()
}

// Source returns the path of the article file relative to the articles root.
func (a Article) Source() string {
	return path.Join(a.Date, a.Filename)
}

// Slug strips a trailing ".md" from filename.
func Slug(filename string) string {
	return strings.TrimSuffix(filename, ".md")
}

// A Lister returns the articles found under root, in listing order.
type Lister func(root string) ([]Article, error)

// DirLister returns a Lister that reads the two-level tree from fsys.
// Every entry of root is read as a date folder; an entry that is not a
// directory fails the listing.
func DirLister(fsys fs.FS) Lister {
	return func(root string) ([]Article, error) {
		dates, err := fs.ReadDir(fsys, root)
		if err != nil {
			return nil, fmt.Errorf("list %q: %w", root, err)
		}
		var r []Article
		for _, d := range dates {
			dir := path.Join(root, d.Name())
			files, err := fs.ReadDir(fsys, dir)
			if err != nil {
				return nil, fmt.Errorf("list %q: %w", dir, err)
			}
			for _, f := range files {
				r = append(r, Article{Date: d.Name(), Filename: f.Name()})
			}
		}
		return r, nil
	}
}

// Collect returns the URL of every article under root.
func Collect(list Lister, root string) ([]string, error) {
	articles, err := list(root)
	if err != nil {
		return nil, fmt.Errorf("Collect: %w", err)
	}
	urls := make([]string, 0, len(articles))
	for _, a := range articles {
		urls = append(urls, a.URL())
	}
	return urls, nil
}

// Generate returns the full route list for static generation: the fixed
// routes followed by the article URLs.
func Generate(list Lister, root string, fixed []string) ([]string, error) {
	urls, err := Collect(list, root)
	if err != nil {
		return nil, err
	}
	r := make([]string, 0, len(fixed)+len(urls))
	r = append(r, fixed...)
	return append(r, urls...), nil
}
