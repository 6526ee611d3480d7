// Package build pre-renders every route of the site into a folder of static files.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fizzylogic/blog/config"
	"github.com/fizzylogic/blog/content"
	"github.com/fizzylogic/blog/sitemap"
)

const sitemapFile = "sitemap.xml"

// Generator writes the static site.
type Generator struct {
	fs     fs.FS
	cfg    *config.Config
	site   *content.Site
	root   string
	output string
}

// Result summarizes a build.
type Result struct {
	Routes []string // routes rendered, in order
	Files  int      // static files copied
}

// New returns a Generator reading the site from fsys and writing to output,
// a folder on disk. root is the folder on disk fsys reads from; an empty
// output uses the configured one below root.
func New(fsys fs.FS, cfg *config.Config, root, output string, opts ...content.Option) (*Generator, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if output == "" {
		output = filepath.Join(root, filepath.FromSlash(cfg.Output))
	}
	site, err := content.New(fsys, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	return &Generator{
		fs:     fsys,
		cfg:    cfg,
		site:   site,
		root:   root,
		output: output,
	}, nil
}

// Output returns the folder the site is written to.
func (g *Generator) Output() string {
	return g.output
}

// Run builds the site. Collecting the routes happens first, so a broken
// content tree fails the build before anything is written.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	routes, err := g.site.Routes()
	if err != nil {
		return nil, fmt.Errorf("collect routes: %w", err)
	}
	log.Printf("Collected %d routes", len(routes))

	if err = g.prepare(); err != nil {
		return nil, fmt.Errorf("prepare output: %w", err)
	}

	var r Result
	r.Files, err = g.copyPublic()
	if err != nil {
		return nil, fmt.Errorf("copy static files: %w", err)
	}

	entries := make([]sitemap.Entry, 0, len(routes))
	for _, route := range routes {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		p, err := g.site.Load(route)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", route, err)
		}
		if err = g.write(outputName(p), p); err != nil {
			return nil, fmt.Errorf("render %s: %w", route, err)
		}
		r.Routes = append(r.Routes, route)
		entries = append(entries, sitemap.Entry{Route: route, LastMod: p.FrontMatter.Date})
	}

	if err = g.notFound(); err != nil {
		return nil, fmt.Errorf("render 404: %w", err)
	}

	f, err := os.Create(filepath.Join(g.output, sitemapFile))
	if err != nil {
		return nil, fmt.Errorf("write sitemap: %w", err)
	}
	defer f.Close()
	if err = sitemap.Write(f, g.cfg.URL, entries); err != nil {
		return nil, fmt.Errorf("write sitemap: %w", err)
	}
	if err = f.Close(); err != nil {
		return nil, fmt.Errorf("write sitemap: %w", err)
	}
	log.Printf("Wrote %d pages and %d static files to %q", len(r.Routes), r.Files, g.output)
	return &r, nil
}

// prepare empties the output folder. It refuses an output that is, or holds,
// the site root, the content or public folders, or the working directory.
func (g *Generator) prepare() error {
	out, err := filepath.Abs(g.output)
	if err != nil {
		return err
	}
	for _, dir := range g.protected() {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		if within(abs, out) {
			return fmt.Errorf("refusing to use %q as output: it holds %q", g.output, abs)
		}
	}
	if err = os.RemoveAll(out); err != nil {
		return err
	}
	return os.MkdirAll(out, os.ModePerm)
}

// protected returns the folders that the output may not remove.
func (g *Generator) protected() []string {
	dirs := []string{
		g.root,
		filepath.Join(g.root, filepath.FromSlash(g.cfg.Content)),
		filepath.Join(g.root, filepath.FromSlash(g.cfg.Public)),
	}
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	return dirs
}

// within reports whether target is dir or lies below it.
func within(target, dir string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// copyPublic copies the static assets folder, if present, into the output.
func (g *Generator) copyPublic() (int, error) {
	_, err := fs.Stat(g.fs, g.cfg.Public)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("No %q folder found; skipping static files", g.cfg.Public)
		return 0, nil
	}
	count := 0
	err = fs.WalkDir(g.fs, g.cfg.Public, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(name, g.cfg.Public), "/")
		if rel == "" {
			return nil
		}
		dst := filepath.Join(g.output, filepath.FromSlash(rel))
		if d.IsDir() {
			return os.MkdirAll(dst, os.ModePerm)
		}
		if err := copyFile(g.fs, name, dst); err != nil {
			return err
		}
		count++
		return nil
	})
	return count, err
}

// notFound renders the optional 404 page.
func (g *Generator) notFound() error {
	p, err := g.site.Load("/404")
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return g.write(g.cfg.NotFound, p)
}

// write renders p into the named file below the output folder.
func (g *Generator) write(name string, p *content.Page) error {
	dst := filepath.Join(g.output, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()
	if err = g.site.Render(f, p); err != nil {
		return err
	}
	return f.Close()
}

// outputName returns the file a page is written to, relative to the output folder.
// Pages become "index.html" files in a folder named after the route so that
// the routes are served without an extension.
func outputName(p *content.Page) string {
	name := strings.Trim(path.Clean("/"+p.Route), "/")
	if p.Raw {
		return name
	}
	if name == "" {
		return "index.html"
	}
	return name + "/index.html"
}

// copyFile copies the named file from fsys to dst.
func copyFile(fsys fs.FS, name, dst string) error {
	src, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer src.Close()
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err = io.Copy(f, src); err != nil {
		return fmt.Errorf("copy %s: %w", name, err)
	}
	return f.Close()
}
