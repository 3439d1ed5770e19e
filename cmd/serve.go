package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bizintel/internal/config"
	"github.com/sells-group/bizintel/internal/scrape"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := newService()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(svc),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Error("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

type scrapeRequest struct {
	URL  string `json:"url" validate:"required"`
	Mode string `json:"mode" validate:"omitempty,oneof=direct find_linkedin"`
}

type urlRequest struct {
	URL string `json:"url" validate:"required"`
}

type batchRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,dive,required"`
	Mode string   `json:"mode" validate:"omitempty,oneof=find_linkedin linkedin_only direct"`
}

type api struct {
	svc      *scrape.Service
	validate *validator.Validate
}

// newRouter wires the API routes around svc.
func newRouter(svc *scrape.Service) http.Handler {
	a := &api{svc: svc, validate: validator.New()}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", a.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.health)
		r.Post("/scrape", a.scrape)
		r.Post("/find_linkedin", a.findLinkedIn)
		r.Post("/linkedin", a.linkedin)
		r.Post("/batch", a.batch)
	})
	return r
}

type ctxKey struct{}

// requestID tags each request with a UUID, reusing an inbound X-Request-ID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		id, _ := r.Context().Value(ctxKey{}).(string)
		zap.L().Info("http request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (a *api) health(w http.ResponseWriter, _ *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": serviceName,
		"version": version,
	})
}

func (a *api) scrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if !a.decode(w, r, &req) {
		return
	}

	if req.Mode == scrape.ModeFindLinkedIn {
		res := a.svc.FindAndExtract(r.Context(), req.URL)
		if !res.Success {
			msg := res.Message
			if res.Error != "" {
				msg = res.Error
			}
			respond(w, http.StatusNotFound, map[string]any{
				"success":      false,
				"error":        msg,
				"website_url":  res.WebsiteURL,
				"linkedin_url": res.LinkedInURL,
			})
			return
		}
		respond(w, http.StatusOK, map[string]any{
			"success":      true,
			"website_url":  res.WebsiteURL,
			"linkedin_url": res.LinkedInURL,
			"data":         res.Data,
		})
		return
	}

	rec, err := a.svc.Scrape(r.Context(), req.URL)
	if err != nil {
		fail(w, err)
		return
	}
	if rec == nil {
		respondError(w, http.StatusInternalServerError, "Failed to extract data from the website")
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "data": rec})
}

func (a *api) findLinkedIn(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if !a.decode(w, r, &req) {
		return
	}

	u := scrape.NormalizeURL(req.URL)
	found, err := a.svc.FindLinkedInURL(r.Context(), u)
	if err != nil {
		fail(w, err)
		return
	}
	if found == "" {
		respond(w, http.StatusNotFound, map[string]any{
			"success":     false,
			"error":       "No LinkedIn URL found on website: " + u,
			"website_url": u,
		})
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"success":      true,
		"website_url":  u,
		"linkedin_url": found,
	})
}

func (a *api) linkedin(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if !a.decode(w, r, &req) {
		return
	}

	data, err := a.svc.ExtractAllCompanyData(r.Context(), req.URL)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func (a *api) batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "URLs parameter is required as an array")
		return
	}
	if len(req.URLs) > config.MaxBatchURLs {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Maximum %d URLs allowed in batch mode", config.MaxBatchURLs))
		return
	}
	if err := a.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	if req.Mode == "" {
		req.Mode = scrape.ModeFindLinkedIn
	}

	report, err := a.svc.Batch(r.Context(), req.URLs, req.Mode, 0)
	if err != nil {
		fail(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"success":    true,
		"run_id":     report.RunID,
		"results":    report.Results,
		"total":      report.Total,
		"successful": report.Successful,
		"failed":     report.Failed,
	})
}

// decode reads a JSON body into v and validates it, writing a 400 on failure.
func (a *api) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "URL parameter is required")
		return false
	}
	if err := a.validate.Struct(v); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return fmt.Sprintf("validation error: %s - %s", ve[0].Field(), ve[0].Tag())
	}
	return "validation error: invalid request"
}

// fail maps a service error to a status: caller input is a 400, anything else a 500.
func fail(w http.ResponseWriter, err error) {
	var inErr *scrape.InputError
	if errors.As(err, &inErr) {
		respondError(w, http.StatusBadRequest, inErr.Error())
		return
	}
	zap.L().Error("api error", zap.Error(err))
	respondError(w, http.StatusInternalServerError, err.Error())
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]any{"success": false, "error": msg})
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}
