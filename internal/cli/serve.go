package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ramplegend/pkg/buildinfo"
	"github.com/matzehuels/ramplegend/pkg/cache"
	"github.com/matzehuels/ramplegend/pkg/config"
	"github.com/matzehuels/ramplegend/pkg/errors"
	"github.com/matzehuels/ramplegend/pkg/observability"
	"github.com/matzehuels/ramplegend/pkg/pipeline"
)

const (
	defaultAddr    = ":8080"
	maxSceneBytes  = 1 << 20
	requestTimeout = 30 * time.Second
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

type serveOpts struct {
	addr      string
	redisURL  string
	keyPrefix string
	noCache   bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: defaultAddr, keyPrefix: appName + ":"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render server",
		Long: `Run an HTTP server that renders scene files.

  POST /render?format=svg   render the TOML scene in the request body
  GET  /healthz             liveness probe

Artifacts are cached on disk, or in Redis when --redis is given so several
server instances share one cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "Redis URL for a shared cache (redis://host:6379/0)")
	cmd.Flags().StringVar(&opts.keyPrefix, "cache-prefix", opts.keyPrefix, "key prefix for the shared cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	runner, err := c.serverRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newServer(runner, c.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printSuccess("Listening on %s", StyleHighlight.Render(opts.addr))
	printKeyValue("version", buildinfo.Version)
	if opts.noCache {
		printWarning("Artifact cache disabled")
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (c *CLI) serverRunner(ctx context.Context, opts serveOpts) (*pipeline.Runner, error) {
	if opts.redisURL == "" || opts.noCache {
		return c.newRunner(opts.noCache)
	}
	rc, err := cache.NewRedisCache(ctx, opts.redisURL, cache.WithKeyPrefix(opts.keyPrefix))
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis cache", "prefix", opts.keyPrefix, "version", buildinfo.Version)
	return pipeline.NewRunner(rc, versionKeyer(), c.Logger), nil
}

// versionKeyer scopes shared artifact keys to the running build, so
// instances of different versions never serve each other's output.
func versionKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
}

type server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// newServer returns the render server's router.
func newServer(runner *pipeline.Runner, logger *log.Logger) http.Handler {
	s := &server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestScope)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Post("/render", s.handleRender)
	return r
}

// requestScope tags each request with an ID, attaches a request logger to
// the context and reports the request to the HTTP hooks.
func (s *server) requestScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := withLogger(r.Context(), s.logger.With("request_id", id))
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(ctx, r.Method, r.URL.Path, status, d)
		loggerFromContext(ctx).Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", d)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := loggerFromContext(ctx)

	opts, err := renderQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSceneBytes))
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read scene"))
		return
	}
	scene, err := config.Parse(body)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	opts.Logger = logger
	result, err := s.runner.Execute(ctx, scene, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if result.Scene != nil {
		result.Scene.Close()
	}

	format := opts.Formats[0]
	cacheStatus := "miss"
	if result.CacheHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("X-Scene-Hash", result.SceneHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// renderQuery reads format, scale, interactive and refresh from the query.
func renderQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Formats: []string{pipeline.FormatSVG}, Interactive: true}
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}
	if err := errors.ValidateFormat(opts.Formats[0]); err != nil {
		return opts, err
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "scale %q", v)
		}
		opts.Scale = scale
	}
	for name, dst := range map[string]*bool{"interactive": &opts.Interactive, "refresh": &opts.Refresh} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s %q", name, v)
			}
			*dst = b
		}
	}
	return opts, nil
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	logger := loggerFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("render failed", "err", err)
	} else {
		logger.Debug("rejected request", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: w.Header().Get("X-Request-ID"),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
