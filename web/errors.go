package web

import (
	"io/fs"
	"net/http"
)

// ErrorPages maps a status code onto the file in the output tree served
// in place of the default error body.
type ErrorPages map[int]string

// ErrorHandler replaces the body of error responses with the matching page
// from fsys. Statuses without a page, or whose page is missing, pass through.
func ErrorHandler(h http.Handler, fsys fs.FS, pages ErrorPages) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(&errorWriter{ResponseWriter: w, fsys: fsys, pages: pages}, r)
	})
}

// errorWriter swallows the body written after an error page has been sent.
type errorWriter struct {
	http.ResponseWriter
	fsys    fs.FS
	pages   ErrorPages
	replace bool
	err     error
}

func (w *errorWriter) Write(b []byte) (int, error) {
	if w.replace {
		return len(b), w.err
	}
	return w.ResponseWriter.Write(b)
}

func (w *errorWriter) WriteHeader(statusCode int) {
	name, ok := w.pages[statusCode]
	if !ok || name == "" {
		w.ResponseWriter.WriteHeader(statusCode)
		return
	}
	b, err := fs.ReadFile(w.fsys, name)
	if err != nil {
		w.ResponseWriter.WriteHeader(statusCode)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Del("X-Content-Type-Options")
	h.Del("Content-Length")
	w.ResponseWriter.WriteHeader(statusCode)
	w.replace = true
	_, w.err = w.ResponseWriter.Write(b)
}
