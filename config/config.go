// Package config reads the site settings from the site.cfg file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/pelletier/go-toml/v2"

	"github.com/fizzylogic/blog/routes"
)

// Filename is the name of the configuration file at the site root.
const Filename = "site.cfg"

// Config contains configuration data from the site.cfg file.
type Config struct {
	URL           string            `toml:"url"`           // Canonical site URL
	Title         string            `toml:"title"`         // Site title
	Content       string            `toml:"content"`       // Folder holding the Markdown pages
	Articles      string            `toml:"articles"`      // Articles folder, relative to Content
	Public        string            `toml:"public"`        // Static assets copied as-is
	Output        string            `toml:"output"`        // Generator output folder
	NotFound      string            `toml:"notfound"`      // Page served for missing files, in the output
	ServerError   string            `toml:"servererror"`   // Page served for server errors, in the output
	Routes        []string          `toml:"routes"`        // Fixed routes rendered before the articles
	Expires       Duration          `toml:"expires"`       // Expires offset for pages
	StaticExpires Duration          `toml:"staticexpires"` // Expires offset for static files
	Headers       map[string]string `toml:"headers"`       // Extra response headers
}

// Default returns the configuration used when site.cfg is absent.
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

func (c *Config) setDefaults() {
	if c.URL == "" {
		c.URL = "https://fizzylogic.nl"
	}
	if c.Title == "" {
		c.Title = "FizzyLogic"
	}
	if c.Content == "" {
		c.Content = "content"
	}
	if c.Articles == "" {
		c.Articles = "articles"
	}
	if c.Public == "" {
		c.Public = "public"
	}
	if c.Output == "" {
		c.Output = "dist"
	}
	if c.NotFound == "" {
		c.NotFound = "404.html"
	}
	if c.ServerError == "" {
		c.ServerError = "500.html"
	}
	if c.Routes == nil {
		c.Routes = append([]string(nil), routes.DefaultRoutes...)
	}
}

// ArticlesRoot returns the articles folder relative to the site root.
func (c *Config) ArticlesRoot() string {
	return path.Join(c.Content, c.Articles)
}

// Load returns configuration from the site.cfg file in fsys.
// It is not an error if the file does not exist.
func Load(fsys fs.FS) (*Config, error) {
	var cfg Config
	b, err := fs.ReadFile(fsys, Filename)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("Cannot read config file: %w", err)
		}
	} else {
		err = toml.Unmarshal(b, &cfg)
		if err != nil {
			return nil, fmt.Errorf("Cannot parse config file: %w", err)
		}
	}
	cfg.setDefaults()
	return &cfg, nil
}
