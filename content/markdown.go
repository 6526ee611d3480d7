package content

import (
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"path"

	"github.com/russross/blackfriday/v2"
)

// markdownExtensions are the blackfriday extensions used for every page.
const markdownExtensions = blackfriday.CommonExtensions | blackfriday.Footnotes

// renderMarkdown converts Markdown to HTML.
func renderMarkdown(md []byte) template.HTML {
	return template.HTML(blackfriday.Run(md, blackfriday.WithExtensions(markdownExtensions)))
}

// readMarkdown reads the named file from the content folder, returning its
// front matter and rendered HTML.
func (s *Site) readMarkdown(name string) (*FrontMatter, template.HTML, error) {
	var fmData FrontMatter
	b, err := fs.ReadFile(s.fs, path.Join(s.cfg.Content, name))
	if err != nil {
		return nil, "", fmt.Errorf("readMarkdown: %w", err)
	}
	fm, r, f := extractFrontMatter(b)
	err = parseFrontMatter(fm, f, &fmData)
	if err != nil {
		return nil, "", fmt.Errorf("readMarkdown %q: %w", name, err)
	}
	return &fmData, renderMarkdown(r), nil
}

// readFrontMatter reads only the front matter of the named file.
func (s *Site) readFrontMatter(name string, fm *FrontMatter) error {
	b, err := fs.ReadFile(s.fs, path.Join(s.cfg.Content, name))
	if err != nil {
		return fmt.Errorf("readFrontMatter: %w", err)
	}
	fmb, _, f := extractFrontMatter(b)
	return parseFrontMatter(fmb, f, fm)
}

// md converts the given Markdown file to HTML and is used in templates.
func (s *Site) md(name string) template.HTML {
	_, h, err := s.readMarkdown(name)
	if err != nil {
		log.Printf("md: %s", err)
		return ""
	}
	return h
}
