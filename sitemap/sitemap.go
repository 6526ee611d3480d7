// Package sitemap writes XML site maps for the generated routes.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

// Namespace is the sitemaps.org schema the url set belongs to.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Entry is a single route of the site map.
type Entry struct {
	Route   string    // route relative to the site root, like "/about"
	LastMod time.Time // optional date of the last change
}

// BuildURL joins the site URL with a route.
func BuildURL(base, route string) string {
	base = strings.TrimSuffix(base, "/")
	if route == "" {
		return base + "/"
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return base + route
}

// Write writes the site map for entries under the site URL base to w.
func Write(w io.Writer, base string, entries []Entry) error {
	set := urlSet{
		XMLNS: Namespace,
		URLs:  make([]url, 0, len(entries)),
	}
	for _, e := range entries {
		u := url{Loc: BuildURL(base, e.Route)}
		if !e.LastMod.IsZero() {
			u.LastMod = e.LastMod.Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("sitemap: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("sitemap: %w", err)
	}
	return nil
}
