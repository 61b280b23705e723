package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ghodss/yaml"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mockstack/mockstack"
	mw "github.com/mockstack/mockstack/lib/middleware"
	"github.com/riandyrn/otelchi"
)

// RouterConfig carries the cross-cutting dependencies for route assembly.
type RouterConfig struct {
	Logger          *slog.Logger
	AccessLogger    *slog.Logger
	Auth            mw.Authenticator
	MaxRequestBytes int64
	OtelEnabled     bool
	OtelServiceName string
	HTTPMetrics     func(http.Handler) http.Handler
}

// NewRouter assembles the full HTTP surface: the auth and operational
// endpoints outside the credential gate, every resource endpoint behind it.
func NewRouter(s *ApiService, rc RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if rc.MaxRequestBytes > 0 {
		r.Use(middleware.RequestSize(rc.MaxRequestBytes))
	}

	// Auth endpoints. Logout reads the token header itself and revoking an
	// absent token is fine, so neither goes through TokenAuth.
	r.Group(func(r chi.Router) {
		r.Use(mw.InjectLogger(rc.Logger))
		r.Use(mw.AccessLogger(rc.AccessLogger))
		r.Use(middleware.Timeout(60 * time.Second))

		r.Post("/v3/auth/tokens", s.CreateTokenHandler)
		r.Post("/v3/auth/logout", s.LogoutHandler)
	})

	// Token-gated resource endpoints
	r.Group(func(r chi.Router) {
		// OpenTelemetry tracing middleware first so the access logger and
		// metrics see the span context
		if rc.OtelEnabled {
			r.Use(otelchi.Middleware(rc.OtelServiceName, otelchi.WithChiRoutes(r)))
		}
		r.Use(mw.InjectLogger(rc.Logger))
		r.Use(mw.AccessLogger(rc.AccessLogger))
		if rc.HTTPMetrics != nil {
			r.Use(rc.HTTPMetrics)
		}
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(mw.TokenAuth(rc.Auth))

		r.Get("/v2/images", s.ListImagesHandler)
		r.Post("/v2/images", s.CreateImageHandler)
		r.Get("/v2/images/{id}", s.GetImageHandler)
		r.Delete("/v2/images/{id}", s.DeleteImageHandler)

		r.Get("/v3/volumes", s.ListVolumesHandler)
		r.Post("/v3/volumes", s.CreateVolumeHandler)
		r.Get("/v3/volumes/{id}", s.GetVolumeHandler)
		r.Delete("/v3/volumes/{id}", s.DeleteVolumeHandler)

		r.Get("/v2.1/servers", s.ListServersHandler)
		r.Post("/v2.1/servers", s.CreateServerHandler)
		r.Get("/v2.1/servers/{id}", s.GetServerHandler)
		r.Delete("/v2.1/servers/{id}", s.DeleteServerHandler)

		r.Post("/v2.1/servers/{id}/os-volume_attachments", s.AttachVolumeHandler)
		r.Get("/v2.1/servers/{id}/os-volume_attachments", s.ListAttachmentsHandler)
		r.Delete("/v2.1/servers/{id}/os-volume_attachments/{attachmentId}", s.DetachVolumeHandler)
	})

	// Unauthenticated operational endpoints
	r.Get("/health", s.HealthHandler)

	r.Get("/spec.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.oai.openapi")
		w.Write(mockstack.OpenAPIYAML)
	})

	r.Get("/spec.json", func(w http.ResponseWriter, r *http.Request) {
		jsonData, err := yaml.YAMLToJSON(mockstack.OpenAPIYAML)
		if err != nil {
			http.Error(w, "Failed to convert YAML to JSON", http.StatusInternalServerError)
			rc.Logger.ErrorContext(r.Context(), "Failed to convert YAML to JSON", "error", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(jsonData)
	})

	r.Get("/swagger", SwaggerUIHandler)

	return r
}
