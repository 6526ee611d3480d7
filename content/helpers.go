package content

import (
	"path"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// bucketLayout is the layout of date folder names.
const bucketLayout = "2006-01-02"

// titleFromSlug turns "my-first_post" into "My First Post".
func titleFromSlug(slug string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return cases.Title(language.English).String(s)
}

// bucketDate parses the date folder name, returning the zero time
// when it doesn't follow the date layout.
func bucketDate(name string) time.Time {
	t, err := time.ParseInLocation(bucketLayout, name, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// routeToSource maps a route onto the Markdown files that may hold it,
// in the order they should be tried.
func routeToSource(route string) []string {
	if route == "" || route == "/" {
		return []string{"index.md"}
	}
	folder := strings.HasSuffix(route, "/")
	p := strings.TrimPrefix(path.Clean("/"+route), "/")
	if folder {
		return []string{path.Join(p, "index.md")}
	}
	return []string{p + ".md", path.Join(p, "index.md")}
}
