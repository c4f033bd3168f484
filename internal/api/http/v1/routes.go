// Package http provides the HTTP delivery layer for the URL shortener service.
// It contains the router, handlers and schemas used for processing incoming
// requests, validating input, and formatting responses.
package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vadimbarashkov/shortly/internal/models"
	"github.com/vadimbarashkov/shortly/internal/service"
)

// URLService defines the interface for the core URL shortening business logic.
type URLService interface {
	// ShortenURL allocates a short code for the original URL, honoring a
	// custom alias, title and expiration window when supplied.
	ShortenURL(ctx context.Context, params service.ShortenParams) (*models.URL, error)

	// ShortenBatch shortens each URL independently, collecting per-url
	// failures instead of aborting the batch.
	ShortenBatch(ctx context.Context, urls []string, expiresInDays int64) *models.BatchResult

	// ResolveShortCode returns the redirect target for a short code and
	// counts the click. Deactivated and expired codes resolve to
	// service.ErrURLGone.
	ResolveShortCode(ctx context.Context, shortCode string) (*models.URL, error)

	// GetURLStats retrieves the statistics snapshot of the URL associated
	// with the short code without counting a click.
	GetURLStats(ctx context.Context, shortCode string) (*models.URL, error)

	// DeactivateURL disables the URL, making it no longer functional.
	DeactivateURL(ctx context.Context, shortCode string) error
}

// getValidate initializes a new validator instance for validating incoming request payloads.
// It customizes tag name extraction from struct fields to match JSON tags.
func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// NewRouter initializes and returns a new HTTP router with all routes and middleware configured.
// The baseURL is the external address short links are prefixed with.
func NewRouter(logger *httplog.Logger, urlSvc URLService, baseURL string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	r.Get("/{shortCode}", handleRedirect(urlSvc))

	r.Route("/api/v1", func(r chi.Router) {
		validate := getValidate()

		r.Get("/ping", handlePing)

		r.Route("/shorten", func(r chi.Router) {
			r.Post("/", handleShortenURL(urlSvc, validate, baseURL))
			r.Post("/bulk", handleShortenBatch(urlSvc, validate, baseURL))

			r.Route("/{shortCode}", func(r chi.Router) {
				r.Get("/", handleResolveShortCode(urlSvc, baseURL))
				r.Delete("/", handleDeactivateURL(urlSvc))
				r.Get("/stats", handleGetURLStats(urlSvc, baseURL))
				r.Get("/qr", handleGetQRCode(urlSvc, baseURL))
			})
		})
	})

	return r
}
