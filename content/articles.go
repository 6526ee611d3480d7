package content

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"

	"github.com/fizzylogic/blog/routes"
)

// Entry is an article as listed on the site.
type Entry struct {
	routes.Article
	URL         string      // route of the article
	FrontMatter FrontMatter // front matter, with defaults filled in
}

// Articles returns the published articles, newest first.
// Drafts are left out; they are still rendered at their own route.
func (s *Site) Articles() ([]Entry, error) {
	articles, err := s.list(s.cfg.ArticlesRoot())
	if err != nil {
		return nil, fmt.Errorf("Articles: %w", err)
	}
	r := make([]Entry, 0, len(articles))
	for _, a := range articles {
		e := Entry{
			Article: a,
			URL:     a.URL(),
			FrontMatter: FrontMatter{
				Title: titleFromSlug(a.Slug()),
				Date:  bucketDate(a.Date),
			},
		}
		if strings.HasSuffix(a.Filename, ".md") {
			var fm FrontMatter
			err = s.readFrontMatter(path.Join(s.cfg.Articles, a.Source()), &fm)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("Articles: %w", err)
			}
			if fm.Draft {
				continue
			}
			if fm.Title != "" {
				e.FrontMatter.Title = fm.Title
			}
			if !fm.Date.IsZero() {
				e.FrontMatter.Date = fm.Date
			}
			e.FrontMatter.Description = fm.Description
			e.FrontMatter.Tags = fm.Tags
			e.FrontMatter.Template = fm.Template
			e.FrontMatter.Redirect = fm.Redirect
		} else {
			e.FrontMatter.Title = a.Filename
		}
		r = append(r, e)
	}
	sortByTime(r)
	return r, nil
}

// articles lists the published articles and is used in templates.
func (s *Site) articles() []Entry {
	r, err := s.Articles()
	if err != nil {
		log.Printf("articles: %s", err)
		return nil
	}
	return r
}

// sortByTime sorts the entries by date in reverse order, keeping
// listing order for equal dates.
func sortByTime(e []Entry) {
	sort.SliceStable(e, func(i, j int) bool { return e[j].FrontMatter.Date.Before(e[i].FrontMatter.Date) })
}
