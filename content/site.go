/*
Package content renders the pages of the blog from Markdown.

A Site reads from an fs.FS rooted at the site folder. Markdown pages live in the
content folder (see config.Config), and each route maps onto a file there:

	/                           content/index.md
	/about                      content/about.md or content/about/index.md
	/articles/2023-01-01/post   content/articles/2023-01-01/post.md

When no Markdown file matches but the route names an existing file, that file is
passed through as-is. This is how stray files in a date folder, which still get a
route of their own, end up in the output. A folder inside a date folder also gets
a route; it renders from its index.md, and without one the route fails to load.

Front Matter

Markdown files may start with front matter in TOML, fenced by "+++" lines, or in
YAML, fenced by "---" lines:

	+++
	title = "My glorious page"
	date = 2023-01-01
	+++
	# This is my Heading

Front matter may include:

	Name         Type               Description
	-----------  -----------------  -----------------------------------------
	title        string             Title of page (derived from the slug if empty)
	description  string             Summary for listings and meta tags
	date         time               Publish date (articles default to their date folder)
	tags         array of strings   Tags for the article
	template     string             Override the template to render this file
	redirect     string             Render an HTML meta-tag redirect instead
	draft        bool               Leave the article out of the listing

Templates

Pages are rendered with html/template. Built-in templates "default", "article",
"index" and "redirect" are always available, and any "template/*.html" files at
the site root are parsed after them and may redefine them. "/" renders with
"index", articles with "article", everything else with "default". Templates
receive the site settings, front matter, page information, and rendered HTML, and
may use these functions:

	articles() []content.Entry
		Published articles, newest first
	join(parts ...string) string
		The same as path.Join
	ext(path string) string
		The same as path.Ext
	trimsuffix(string, string) string
		The same as strings.TrimSuffix
	trimprefix(string, string) string
		The same as strings.TrimPrefix
	markdown(string) template.HTML
		Render a Markdown file from the content folder into HTML
	title(string) string
		Turn a slug into a title
	now() time.Time
		Current time
*/
package content

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/fizzylogic/blog/config"
	"github.com/fizzylogic/blog/routes"
)

// Site renders the routes of a blog.
type Site struct {
	fs   fs.FS
	cfg  *config.Config
	list routes.Lister
	tpl  *template.Template
}

// Option configures additional Site behavior.
type Option func(*Site)

// WithLister replaces the directory listing used to find articles.
func WithLister(list routes.Lister) Option {
	return func(s *Site) {
		s.list = list
	}
}

// New returns a Site reading from fsys, the root of the site.
func New(fsys fs.FS, cfg *config.Config, opts ...Option) (*Site, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	s := Site{
		fs:   fsys,
		cfg:  cfg,
		list: routes.DirLister(fsys),
	}
	for _, opt := range opts {
		opt(&s)
	}
	_, err := s.loadTemplates()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Routes returns the routes to generate: the configured fixed routes
// followed by one route per article.
func (s *Site) Routes() ([]string, error) {
	return routes.Generate(s.list, s.cfg.ArticlesRoot(), s.cfg.Routes)
}

// Page is a loaded route.
type Page struct {
	Route       string        // route of the page
	Source      string        // file the page comes from, relative to the content folder
	Raw         bool          // true when Source is passed through unchanged
	FrontMatter FrontMatter   // front matter, with defaults filled in
	Content     template.HTML // rendered Markdown
}

// Load reads the page behind route.
// The error wraps fs.ErrNotExist when no file matches the route.
func (s *Site) Load(route string) (*Page, error) {
	rel := route
	if isArticleRoute(route) {
		rel = "/" + s.cfg.Articles + strings.TrimPrefix(route, routes.Prefix)
	}
	for _, name := range routeToSource(rel) {
		fm, h, err := s.readMarkdown(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("Load %q: %w", route, err)
		}
		p := Page{
			Route:       route,
			Source:      name,
			FrontMatter: *fm,
			Content:     h,
		}
		s.fillDefaults(&p)
		return &p, nil
	}
	// no markdown; look for the file itself
	name := strings.TrimPrefix(path.Clean("/"+rel), "/")
	if name != "" {
		fi, err := fs.Stat(s.fs, path.Join(s.cfg.Content, name))
		if err == nil && !fi.IsDir() {
			return &Page{Route: route, Source: name, Raw: true}, nil
		}
		if err == nil {
			return nil, fmt.Errorf("Load %q: %s is a folder without index.md: %w", route, path.Join(s.cfg.Content, name), fs.ErrNotExist)
		}
	}
	return nil, fmt.Errorf("Load %q: %w", route, fs.ErrNotExist)
}

// fillDefaults derives missing front matter from the route.
func (s *Site) fillDefaults(p *Page) {
	_, slug := path.Split(strings.TrimSuffix(p.Route, "/"))
	if p.FrontMatter.Title == "" && slug != "" {
		p.FrontMatter.Title = titleFromSlug(routes.Slug(slug))
	}
	if p.FrontMatter.Date.IsZero() && isArticleRoute(p.Route) {
		p.FrontMatter.Date = bucketDate(articleBucket(p.Route))
	}
}

// Render writes the page to w, either by executing its template or by
// copying the source file.
func (s *Site) Render(w io.Writer, p *Page) error {
	if p.Raw {
		f, err := s.fs.Open(path.Join(s.cfg.Content, p.Source))
		if err != nil {
			return fmt.Errorf("Render %q: %w", p.Route, err)
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		if err != nil {
			return fmt.Errorf("Render %q: %w", p.Route, err)
		}
		return nil
	}
	dir, bn := path.Split(p.Route)
	var d = data{
		Site: SiteInfo{
			URL:   strings.TrimSuffix(s.cfg.URL, "/"),
			Title: s.cfg.Title,
		},
		FrontMatter: p.FrontMatter,
		Page: PageInfo{
			Route:    p.Route,
			Path:     dir,
			Filename: bn,
		},
		Content: p.Content,
	}
	// Render the HTML template
	var out bytes.Buffer
	err := s.tpl.ExecuteTemplate(&out, s.templateFor(p.Route, &p.FrontMatter), d)
	if err != nil {
		return fmt.Errorf("Render %q: %w", p.Route, err)
	}
	_, err = out.WriteTo(w)
	return err
}

// isArticleRoute reports whether route points into the articles tree.
func isArticleRoute(route string) bool {
	return strings.HasPrefix(route, routes.Prefix+"/")
}

// articleBucket returns the date folder of an article route.
func articleBucket(route string) string {
	rest := strings.TrimPrefix(route, routes.Prefix+"/")
	bucket, _, _ := strings.Cut(rest, "/")
	return bucket
}
