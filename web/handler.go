package web

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"

	"github.com/fizzylogic/blog/config"
)

// Handler serves a generated site from fsys. Responses carry the configured
// headers and expiry, are compressed when the client accepts it, and use the
// configured error pages when the site has them.
func Handler(fsys fs.FS, cfg *config.Config) http.Handler {
	if cfg == nil {
		cfg = config.Default()
	}
	return HeaderHandler(
		ExpiresHandler(
			gziphandler.GzipHandler(
				ErrorHandler(
					http.FileServer(http.FS(fsys)),
					fsys,
					ErrorPages{
						http.StatusNotFound:            cfg.NotFound,
						http.StatusInternalServerError: cfg.ServerError,
					},
				),
			),
			time.Duration(cfg.Expires),
			time.Duration(cfg.StaticExpires),
		),
		cfg.Headers)
}
