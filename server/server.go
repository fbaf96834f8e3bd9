package server

import (
	"log/slog"
	"net/http"

	"github.com/bgeneto/flux-image-gen/config"
	"github.com/bgeneto/flux-image-gen/server/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	*config.Config

	handler http.Handler
}

func New(cfg *config.Config) (*Server, error) {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	h, err := api.New(cfg)

	if err != nil {
		return nil, err
	}

	r.Route("/v1", func(r chi.Router) {
		h.Attach(r)
	})

	return &Server{
		Config: cfg,

		handler: otelhttp.NewHandler(r, "server"),
	}, nil
}

func (s *Server) ListenAndServe() error {
	slog.Info("starting server", "address", s.Address)

	return http.ListenAndServe(s.Address, s.handler)
}
