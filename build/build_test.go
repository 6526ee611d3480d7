package build

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/fizzylogic/blog/config"
	"github.com/fizzylogic/blog/content"
)

func testSite() fstest.MapFS {
	return fstest.MapFS{
		"content/index.md":                       {Data: []byte("+++\ntitle = \"Home\"\n+++\nWelcome!")},
		"content/about.md":                       {Data: []byte("# About")},
		"content/404.md":                         {Data: []byte("# Not here")},
		"content/articles/2023-01-01/my-post.md": {Data: []byte("# Hello")},
		"content/articles/2023-01-01/notes.txt":  {Data: []byte("plain notes")},
		"public/styles.css":                      {Data: []byte("body{}")},
		"public/img/logo.svg":                    {Data: []byte("<svg/>")},
	}
}

func TestRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	g, err := New(testSite(), nil, t.TempDir(), out)
	if err != nil {
		t.Fatal(err)
	}
	r, err := g.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"/about", "/", "/articles/2023-01-01/my-post", "/articles/2023-01-01/notes.txt"}
	if !reflect.DeepEqual(r.Routes, want) {
		t.Errorf("Expected routes %v but got %v", want, r.Routes)
	}
	if r.Files != 2 {
		t.Errorf("Expected 2 static files but got %d", r.Files)
	}

	files := map[string]string{
		"index.html":                             "Welcome!",
		"about/index.html":                       "<h1>About</h1>",
		"articles/2023-01-01/my-post/index.html": "<h1>Hello</h1>",
		"articles/2023-01-01/notes.txt":          "plain notes",
		"404.html":                               "Not here",
		"styles.css":                             "body{}",
		"img/logo.svg":                           "<svg/>",
		"sitemap.xml":                            "<loc>https://fizzylogic.nl/articles/2023-01-01/my-post</loc>",
	}
	for name, contains := range files {
		b, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(name)))
		if err != nil {
			t.Errorf("Cannot read %q: %v", name, err)
			continue
		}
		if !strings.Contains(string(b), contains) {
			t.Errorf("Expected %q in %s but got\n%s", contains, name, b)
		}
	}
}

func TestRunCleansOutput(t *testing.T) {
	out := t.TempDir()
	stale := filepath.Join(out, "stale.html")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := New(testSite(), nil, t.TempDir(), out)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = g.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err = os.Stat(stale); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected stale file to be removed but got %v", err)
	}
}

func TestRunEmptySite(t *testing.T) {
	fsys := fstest.MapFS{
		"content/index.md": {Data: []byte("home")},
		"content/about.md": {Data: []byte("about")},
		"content/articles": {Mode: fs.ModeDir},
	}
	g, err := New(fsys, nil, t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r, err := g.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"/about", "/"}; !reflect.DeepEqual(r.Routes, want) {
		t.Errorf("Expected routes %v but got %v", want, r.Routes)
	}
	if r.Files != 0 {
		t.Errorf("Expected no static files but got %d", r.Files)
	}
}

func TestRunMissingArticles(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")
	g, err := New(fstest.MapFS{"content/index.md": {Data: []byte("home")}}, nil, t.TempDir(), out)
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.Run(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist but got %v", err)
	}
	if _, err = os.Stat(out); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected nothing written but got %v", err)
	}
}

func TestRunMissingPage(t *testing.T) {
	fsys := testSite()
	delete(fsys, "content/about.md")
	g, err := New(fsys, nil, t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "/about") {
		t.Errorf("Expected an error naming /about but got %v", err)
	}
}

func TestRunCanceled(t *testing.T) {
	g, err := New(testSite(), nil, t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled but got %v", err)
	}
}

func TestRunRefusesRoot(t *testing.T) {
	g, err := New(testSite(), nil, t.TempDir(), ".")
	if err != nil {
		t.Fatal(err)
	}
	if _, err = g.Run(context.Background()); err == nil {
		t.Error("Expected an error for output \".\"")
	}
}

func TestDefaultOutput(t *testing.T) {
	g, err := New(testSite(), &config.Config{Output: "public_html"}, "site", "")
	if err != nil {
		t.Fatal(err)
	}
	if g.Output() != filepath.Join("site", "public_html") {
		t.Errorf("Expected configured output but got %q", g.Output())
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		page content.Page
		want string
	}{
		{content.Page{Route: "/"}, "index.html"},
		{content.Page{Route: "/about"}, "about/index.html"},
		{content.Page{Route: "/about/"}, "about/index.html"},
		{content.Page{Route: "/articles/2023-01-01/my-post"}, "articles/2023-01-01/my-post/index.html"},
		{content.Page{Route: "/articles/2023-01-01/notes.txt", Raw: true}, "articles/2023-01-01/notes.txt"},
	}
	for _, tt := range tests {
		if got := outputName(&tt.page); got != tt.want {
			t.Errorf("outputName(%q) = %q, want %q", tt.page.Route, got, tt.want)
		}
	}
}

// writeSite puts the test site on disk and returns its absolute root.
func writeSite(t *testing.T) string {
	t.Helper()
	root, err := filepath.Abs(filepath.Join(t.TempDir(), "site"))
	if err != nil {
		t.Fatal(err)
	}
	for name, f := range testSite() {
		dst := filepath.Join(root, filepath.FromSlash(name))
		if err = os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
			t.Fatal(err)
		}
		if err = os.WriteFile(dst, f.Data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestRunRefusesSiteFolders(t *testing.T) {
	root := writeSite(t)
	cfg := config.Default()
	outputs := []string{
		root,
		filepath.Join(root, "."),
		filepath.Join(root, "content"),
		filepath.Join(root, "content", ".."),
		filepath.Join(root, "public"),
		filepath.Dir(root),
	}
	for _, out := range outputs {
		g, err := New(os.DirFS(root), cfg, root, out)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = g.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "refusing") {
			t.Errorf("%s: expected the output to be refused but got %v", out, err)
		}
		for _, name := range []string{"content/articles/2023-01-01/my-post.md", "public/styles.css"} {
			if _, err = os.Stat(filepath.Join(root, filepath.FromSlash(name))); err != nil {
				t.Fatalf("%s: site source was removed: %v", out, err)
			}
		}
	}
}

func TestRunOnDisk(t *testing.T) {
	root := writeSite(t)
	cfg := config.Default()
	cfg.NotFound = "missing.html"
	g, err := New(os.DirFS(root), cfg, root, "")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(root, "dist"); g.Output() != want {
		t.Errorf("Expected output %q but got %q", want, g.Output())
	}
	if _, err = g.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"dist/index.html", "dist/missing.html", "content/index.md"} {
		if _, err = os.Stat(filepath.Join(root, filepath.FromSlash(name))); err != nil {
			t.Errorf("Expected %s: %v", name, err)
		}
	}
	if _, err = os.Stat(filepath.Join(root, "dist", "404.html")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected no 404.html but got %v", err)
	}
}

func TestRunFolderInDateFolder(t *testing.T) {
	fsys := testSite()
	fsys["content/articles/2023-01-01/gallery/photo.jpg"] = &fstest.MapFile{Data: []byte("jpg")}
	g, err := New(fsys, nil, t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "gallery is a folder without index.md") {
		t.Errorf("Expected the build to name the folder but got %v", err)
	}
}

func TestWithin(t *testing.T) {
	sep := string(filepath.Separator)
	tests := []struct {
		target, dir string
		want        bool
	}{
		{sep + "a", sep + "a", true},
		{sep + filepath.Join("a", "b"), sep + "a", true},
		{sep + "a", sep + filepath.Join("a", "b"), false},
		{sep + "ab", sep + "a", false},
		{sep + filepath.Join("a", "..b"), sep + "a", true},
	}
	for _, tt := range tests {
		if got := within(tt.target, tt.dir); got != tt.want {
			t.Errorf("within(%q, %q) = %v, want %v", tt.target, tt.dir, got, tt.want)
		}
	}
}
