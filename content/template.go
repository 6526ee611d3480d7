package content

import (
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"time"
)

//go:embed default.html
var defaultTemplate string

// TemplateFolder is the folder at the site root holding custom templates.
const TemplateFolder = "template"

// SiteInfo describes the site to templates.
type SiteInfo struct {
	URL   string // canonical site URL
	Title string // site title
}

// PageInfo has information about the current page.
type PageInfo struct {
	Route    string // route being rendered
	Path     string // folder portion of the route
	Filename string // end portion of the route
}

// Pathname joins the path and filename.
func (p PageInfo) Pathname() string {
	return path.Join(p.Path, p.Filename)
}

// data is what is passed to templates.
type data struct {
	Site        SiteInfo      // site-wide settings
	FrontMatter FrontMatter   // front matter from Markdown file or defaults
	Page        PageInfo      // information about current page
	Content     template.HTML // rendered Markdown
}

// loadTemplates parses the built-in templates and then any custom templates
// from the template folder, which may redefine them. It returns true if custom
// templates were found.
func (s *Site) loadTemplates() (bool, error) {
	funcMap := template.FuncMap{
		"articles":   s.articles,
		"join":       path.Join,
		"ext":        path.Ext,
		"trimsuffix": strings.TrimSuffix,
		"trimprefix": strings.TrimPrefix,
		"markdown":   s.md,
		"title":      titleFromSlug,
		"now":        time.Now,
	}
	tpl, err := template.New("site").Funcs(funcMap).Parse(defaultTemplate)
	if err != nil {
		return false, fmt.Errorf("loadTemplates: %w", err)
	}
	s.tpl = tpl
	// Check if we are using default templates
	fi, err := fs.Stat(s.fs, TemplateFolder)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !fi.IsDir()) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("loadTemplates: %w", err)
	}
	matches, err := fs.Glob(s.fs, TemplateFolder+"/*.html")
	if err != nil {
		return false, fmt.Errorf("loadTemplates: %w", err)
	}
	if len(matches) == 0 {
		return false, nil
	}
	_, err = s.tpl.ParseFS(s.fs, TemplateFolder+"/*.html")
	if err != nil {
		return true, fmt.Errorf("loadTemplates: %w", err)
	}
	return true, nil
}

// templateFor picks the template used to render a page.
func (s *Site) templateFor(route string, fm *FrontMatter) string {
	switch {
	case fm.Redirect != "":
		return "redirect"
	case fm.Template != "":
		return fm.Template
	case route == "/":
		return "index"
	case isArticleRoute(route):
		return "article"
	}
	return "default"
}
