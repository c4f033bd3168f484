package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortly/internal/database"
	"github.com/vadimbarashkov/shortly/internal/models"
	"github.com/vadimbarashkov/shortly/internal/qr"
	"github.com/vadimbarashkov/shortly/internal/service"
	"github.com/vadimbarashkov/shortly/pkg/response"
)

// handlePing handles health check requests to ensure the server is running.
func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

// shortenRequest represents the request payload for creating a shortened URL.
type shortenRequest struct {
	URL           string `json:"url" validate:"required,url"`
	CustomAlias   string `json:"custom_alias,omitempty" validate:"omitempty,alphanum,min=3,max=32"`
	Title         string `json:"title,omitempty" validate:"omitempty,max=255"`
	ExpiresInDays int64  `json:"expires_in_days,omitempty" validate:"omitempty,gt=0"`
}

// batchShortenRequest represents the request payload for bulk shortening.
// URL syntax is deliberately not validated here; malformed entries become
// per-url error messages instead of failing the whole request.
type batchShortenRequest struct {
	URLs          []string `json:"urls" validate:"required,min=1"`
	ExpiresInDays int64    `json:"expires_in_days,omitempty" validate:"omitempty,gt=0"`
}

// urlResponse represents the response payload for a shortened URL operation.
type urlResponse struct {
	ID         int64      `json:"id"`
	ShortCode  string     `json:"short_code"`
	ShortURL   string     `json:"short_url"`
	URL        string     `json:"url"`
	Title      string     `json:"title,omitempty"`
	ClickCount int64      `json:"click_count"`
	IsActive   bool       `json:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	QRCode     string     `json:"qr_code,omitempty"`
}

// batchShortenResponse represents the payload for a bulk shorten operation.
type batchShortenResponse struct {
	Results      []urlResponse `json:"results"`
	TotalCreated int           `json:"total_created"`
	Errors       []string      `json:"errors"`
}

// shortURLFor builds the public short URL for a code from the configured base address.
func shortURLFor(baseURL, shortCode string) string {
	return strings.TrimRight(baseURL, "/") + "/" + shortCode
}

// toURLResponse converts a URL model from the business layer into a response payload.
func toURLResponse(url *models.URL, baseURL string) urlResponse {
	return urlResponse{
		ID:         url.ID,
		ShortCode:  url.ShortCode,
		ShortURL:   shortURLFor(baseURL, url.ShortCode),
		URL:        url.OriginalURL,
		Title:      url.Title,
		ClickCount: url.ClickCount,
		IsActive:   url.IsActive,
		ExpiresAt:  url.ExpiresAt,
		CreatedAt:  url.CreatedAt,
		UpdatedAt:  url.UpdatedAt,
	}
}

// withQRCode attaches the QR code data URI for the short URL. Rendering
// failures are logged and leave the payload without a QR code rather than
// failing the request.
func withQRCode(r *http.Request, op string, data urlResponse) urlResponse {
	dataURI, err := qr.DataURI(data.ShortURL)
	if err != nil {
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})
		return data
	}

	data.QRCode = dataURI

	return data
}

// handleShortenURL handles POST requests to shorten a URL.
//
// The request must contain a valid URL and may carry a custom alias, a title
// and an expiration window in days. The handler validates the input, calls the
// URL shortening service, and returns the created record with its short URL
// and QR code.
func handleShortenURL(svc URLService, validate *validator.Validate, baseURL string) http.HandlerFunc {
	const op = "api.http.handleShortenURL"
	const successMsg = "The URL has been shortened successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req shortenRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		url, err := svc.ShortenURL(r.Context(), service.ShortenParams{
			OriginalURL:   req.URL,
			CustomAlias:   req.CustomAlias,
			Title:         req.Title,
			ExpiresInDays: req.ExpiresInDays,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidURL), errors.Is(err, service.ErrInvalidExpiration):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.BadRequestResponse)
			case errors.Is(err, service.ErrAliasTaken):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.ConflictResponse)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}

			return
		}

		data := withQRCode(r, op, toURLResponse(url, baseURL))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.SuccessResponse(successMsg, data))
	}
}

// handleShortenBatch handles POST requests to shorten multiple URLs at once.
//
// Each URL is processed independently; malformed entries are reported in the
// errors list while the remaining URLs are still shortened. Partial failure is
// a designed outcome, not an error.
func handleShortenBatch(svc URLService, validate *validator.Validate, baseURL string) http.HandlerFunc {
	const successMsg = "The URLs have been processed."

	return func(w http.ResponseWriter, r *http.Request) {
		var req batchShortenRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		result := svc.ShortenBatch(r.Context(), req.URLs, req.ExpiresInDays)

		data := batchShortenResponse{
			Results:      make([]urlResponse, 0, len(result.URLs)),
			TotalCreated: result.TotalCreated,
			Errors:       result.Errors,
		}
		for _, url := range result.URLs {
			data.Results = append(data.Results, toURLResponse(url, baseURL))
		}
		if data.Errors == nil {
			data.Errors = []string{}
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.SuccessResponse(successMsg, data))
	}
}

// handleResolveShortCode handles GET requests to resolve a short code into the
// original URL.
//
// Resolution counts as a click. Deactivated and expired codes return 410 Gone,
// distinct from 404 for codes that never existed.
func handleResolveShortCode(svc URLService, baseURL string) http.HandlerFunc {
	const op = "api.http.handleResolveShortCode"
	const successMsg = "The short code was successfully resolved."

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		url, err := svc.ResolveShortCode(r.Context(), shortCode)
		if err != nil {
			renderResolveError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toURLResponse(url, baseURL)))
	}
}

// handleRedirect handles GET requests on short links themselves, redirecting
// the visitor to the original URL.
func handleRedirect(svc URLService) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		url, err := svc.ResolveShortCode(r.Context(), shortCode)
		if err != nil {
			renderResolveError(w, r, op, err)
			return
		}

		http.Redirect(w, r, url.OriginalURL, http.StatusTemporaryRedirect)
	}
}

// renderResolveError maps resolution failures onto the API error responses.
func renderResolveError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, database.ErrURLNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.ResourceNotFoundResponse)
	case errors.Is(err, service.ErrURLGone):
		render.Status(r, http.StatusGone)
		render.JSON(w, r, response.ResourceGoneResponse)
	default:
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
	}
}

// handleDeactivateURL handles DELETE requests to deactivate the URL.
//
// Once deactivated, the URL will no longer be functional. The handler returns
// a success message if deactivation is successful or an error if the short
// code doesn't exist.
func handleDeactivateURL(svc URLService) http.HandlerFunc {
	const op = "api.http.handleDeactivateURL"
	const successMsg = "The URL was successfully deactivated."

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		err := svc.DeactivateURL(r.Context(), shortCode)
		if err != nil {
			if errors.Is(err, database.ErrURLNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg))
	}
}

// handleGetURLStats handles GET requests to retrieve usage statistics for a
// shortened URL.
//
// Statistics stay readable for expired and deactivated URLs; only redirects
// are blocked for those.
func handleGetURLStats(svc URLService, baseURL string) http.HandlerFunc {
	const op = "api.http.handleGetURLStats"
	const successMsg = "The URL statistics retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		url, err := svc.GetURLStats(r.Context(), shortCode)
		if err != nil {
			if errors.Is(err, database.ErrURLNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		data := withQRCode(r, op, toURLResponse(url, baseURL))

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, data))
	}
}

// handleGetQRCode handles GET requests for the QR code image of a short URL.
func handleGetQRCode(svc URLService, baseURL string) http.HandlerFunc {
	const op = "api.http.handleGetQRCode"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		url, err := svc.GetURLStats(r.Context(), shortCode)
		if err != nil {
			if errors.Is(err, database.ErrURLNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.ResourceNotFoundResponse)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		png, err := qr.Render(shortURLFor(baseURL, url.ShortCode))
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		w.Write(png) //nolint:errcheck
	}
}
