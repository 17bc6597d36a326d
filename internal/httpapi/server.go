// Package httpapi exposes the reply operations over HTTP for front ends other
// than Telegram, together with health and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/j0lvera/delbar/internal/config"
	"github.com/j0lvera/delbar/internal/metrics"
	"github.com/j0lvera/delbar/internal/reply"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const maxBodyBytes = 64 << 10

type replyRequest struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

type musicRequest struct {
	Query string `json:"query"`
}

type replyResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter builds the HTTP routes.
func NewRouter(r reply.Replier, gatherer prometheus.Gatherer, log zerolog.Logger) http.Handler {
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	mux.Use(requestLogger(log))

	mux.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	mux.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	mux.Route("/v1", func(v1 chi.Router) {
		v1.Post("/reply", func(w http.ResponseWriter, req *http.Request) {
			var body replyRequest
			if !decode(w, req, &body) {
				return
			}
			if body.Message == "" {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
				return
			}
			writeJSON(w, http.StatusOK, replyResponse{Reply: r.Reply(req.Context(), body.Message, body.UserID)})
		})
		v1.Post("/music", func(w http.ResponseWriter, req *http.Request) {
			var body musicRequest
			if !decode(w, req, &body) {
				return
			}
			if body.Query == "" {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "query is required"})
				return
			}
			writeJSON(w, http.StatusOK, replyResponse{Reply: r.SearchMusic(req.Context(), body.Query)})
		})
		v1.Get("/joke", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, replyResponse{Reply: r.Joke(req.Context())})
		})
		v1.Get("/support", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, replyResponse{Reply: r.SupportiveMessage(req.Context())})
		})
	})

	return mux
}

func decode(w http.ResponseWriter, req *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger attaches a request-scoped logger to the context and logs
// each request once it completes.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLog := log.With().
				Str("request_id", uuid.NewString()).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()

			next.ServeHTTP(w, r.WithContext(reqLog.WithContext(r.Context())))

			reqLog.Debug().Dur("duration", time.Since(start)).Msg("http request")
		})
	}
}

type Params struct {
	fx.In

	Config    *config.Config
	Generator *reply.Generator
	Gatherer  prometheus.Gatherer
	Logger    zerolog.Logger
}

// Register starts the HTTP server when HTTP_ADDR is configured.
func Register(lc fx.Lifecycle, p Params) {
	if p.Config.HTTPAddr == "" {
		return
	}

	log := p.Logger.With().Str("component", "http").Logger()
	srv := &http.Server{
		Addr:              p.Config.HTTPAddr,
		Handler:           NewRouter(p.Generator, p.Gatherer, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				ln, err := net.Listen("tcp", srv.Addr)
				if err != nil {
					return err
				}
				log.Info().Str("addr", srv.Addr).Msg("starting http server...")
				go func() {
					if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error().Err(err).Msg("http server stopped")
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				log.Info().Msg("stopping http server...")
				return srv.Shutdown(ctx)
			},
		},
	)
}

func Module() fx.Option {
	return fx.Module(
		"httpapi",
		fx.Invoke(
			Register,
		),
	)
}
