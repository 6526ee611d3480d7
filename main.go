package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ancientlore/cachefs"
	"github.com/facebookgo/flagenv"
	"github.com/golang/groupcache"
	"github.com/joho/godotenv"

	"github.com/fizzylogic/blog/build"
	"github.com/fizzylogic/blog/config"
	"github.com/fizzylogic/blog/routes"
	"github.com/fizzylogic/blog/web"
)

var (
	fRoot              = flag.String("root", ".", "Root of the site.")
	fOutput            = flag.String("output", "", "Output folder (default from site.cfg, relative to root).")
	fPort              = flag.Int("port", 8080, "Port to listen on for serve.")
	fReadTimeout       = flag.Duration("readtimeout", 10*time.Second, "HTTP server read timeout.")
	fReadHeaderTimeout = flag.Duration("readheadertimeout", 5*time.Second, "HTTP server read header timeout.")
	fWriteTimeout      = flag.Duration("writetimeout", 30*time.Second, "HTTP server write timeout.")
	fCacheSize         = flag.Int64("cachesize", 10*1024*1024, "Size of the serve cache in bytes.")
	fCacheDuration     = flag.Duration("cacheduration", 10*time.Second, "Expiration of items in the serve cache.")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: %s [flags] [command]

Commands:
  routes   print the routes that will be generated
  build    render the site into the output folder (default)
  serve    build the site and serve it

Flags may also be set with FIZZY_ environment variables, which can be
placed in a .env file.

Flags:
`, os.Args[0])
	flag.PrintDefaults()
}

// main is where it all begins.
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Cannot load .env file: %s", err)
	}
	flag.Usage = usage
	flag.Parse()
	if err := flagenv.ParseSet("FIZZY_", flag.CommandLine); err != nil {
		log.Printf("Cannot read flags from the environment: %s", err)
		os.Exit(2)
	}

	fsys := os.DirFS(*fRoot)
	cfg, err := config.Load(fsys)
	if err != nil {
		log.Printf("Cannot load configuration: %s", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := flag.Arg(0)
	switch cmd {
	case "routes":
		err = printRoutes(fsys, cfg)
	case "", "build":
		_, err = runBuild(ctx, fsys, cfg)
	case "serve":
		err = serve(ctx, fsys, cfg)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Printf("%s: %s", cmd, err)
		os.Exit(1)
	}
}

// printRoutes writes the route list to standard output, one per line.
func printRoutes(fsys fs.FS, cfg *config.Config) error {
	r, err := routes.Generate(routes.DirLister(fsys), cfg.ArticlesRoot(), cfg.Routes)
	if err != nil {
		return err
	}
	for _, route := range r {
		fmt.Println(route)
	}
	return nil
}

// runBuild renders the site into the output folder and returns that folder.
func runBuild(ctx context.Context, fsys fs.FS, cfg *config.Config) (string, error) {
	g, err := build.New(fsys, cfg, *fRoot, *fOutput)
	if err != nil {
		return "", err
	}
	_, err = g.Run(ctx)
	return g.Output(), err
}

// serve builds the site and serves the output until ctx is done.
func serve(ctx context.Context, fsys fs.FS, cfg *config.Config) error {
	output, err := runBuild(ctx, fsys, cfg)
	if err != nil {
		return err
	}

	// Setup groupcache (with no peers)
	groupcache.RegisterPeerPicker(func() groupcache.PeerPicker { return groupcache.NoPeers{} })

	// Create the cached file system over the output
	cached := cachefs.New(os.DirFS(output), &cachefs.Config{
		GroupName:   "site",
		SizeInBytes: *fCacheSize,
		Duration:    *fCacheDuration,
	})

	// Create HTTP server
	var srv = http.Server{
		Addr:              fmt.Sprintf(":%d", *fPort),
		Handler:           web.Handler(cached, cfg),
		ReadTimeout:       *fReadTimeout,
		WriteTimeout:      *fWriteTimeout,
		ReadHeaderTimeout: *fReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		// We received an interrupt signal, shut down.
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			// Error from closing listeners, or context timeout:
			log.Printf("HTTP server Shutdown: %v", err)
		}
	}()

	log.Printf("Serving %q on %s", output, srv.Addr)
	if err = srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server: %w", err)
	}
	log.Print("Goodbye.")
	return nil
}
