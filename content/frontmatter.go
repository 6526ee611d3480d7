package content

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FrontMatter holds data scraped from a Markdown page.
type FrontMatter struct {
	Title       string    `toml:"title" yaml:"title"`             // Title of this page
	Description string    `toml:"description" yaml:"description"` // Summary used in listings and meta tags
	Date        time.Time `toml:"date" yaml:"date"`               // Date the article appears
	Template    string    `toml:"template" yaml:"template"`       // The name of the template to use
	Tags        []string  `toml:"tags" yaml:"tags"`               // Tags to assign to this article
	Redirect    string    `toml:"redirect" yaml:"redirect"`       // Issue a redirect to another location
	Draft       bool      `toml:"draft" yaml:"draft"`             // Keep the page out of listings
}

type format int

const (
	noFrontMatter format = iota
	tomlFrontMatter
	yamlFrontMatter
)

// delimiters are the regular expressions used to split out front matter.
var delimiters = []struct {
	re *regexp.Regexp
	f  format
}{
	{regexp.MustCompile(`(?m)^\s*\+\+\+\s*$`), tomlFrontMatter},
	{regexp.MustCompile(`(?m)^\s*---\s*$`), yamlFrontMatter},
}

// extractFrontMatter splits the front matter and Markdown content.
// TOML front matter is fenced by "+++" lines, YAML front matter by "---" lines.
func extractFrontMatter(x []byte) (fm, r []byte, f format) {
	for _, d := range delimiters {
		subs := d.re.Split(string(x), 3)
		if len(subs) != 3 {
			continue
		}
		if s := strings.TrimSpace(subs[0]); len(s) > 0 {
			continue
		}
		return []byte(strings.TrimSpace(subs[1])), []byte(strings.TrimSpace(subs[2])), d.f
	}
	return nil, x, noFrontMatter
}

// parseFrontMatter unmarshals fm according to its format.
func parseFrontMatter(fm []byte, f format, dest *FrontMatter) error {
	if len(fm) == 0 {
		return nil
	}
	var err error
	switch f {
	case tomlFrontMatter:
		err = toml.Unmarshal(fm, dest)
	case yamlFrontMatter:
		err = yaml.Unmarshal(fm, dest)
	}
	if err != nil {
		return fmt.Errorf("parseFrontMatter: %w", err)
	}
	return nil
}
