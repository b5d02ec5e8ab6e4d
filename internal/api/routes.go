// Route registration and go-chi router setup.
// Public routes (/health, /auth/token) vs JWT-protected routes (/api/v1/*).
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/y149604146/qwen-agent-scheduler/internal/api/handlers"
	apmiddleware "github.com/y149604146/qwen-agent-scheduler/internal/api/middleware"
	"github.com/y149604146/qwen-agent-scheduler/internal/domain/audit"
	"github.com/y149604146/qwen-agent-scheduler/internal/domain/method"
)

// Deps are the wired application services the router exposes over HTTP.
type Deps struct {
	Engine    *method.Engine
	Registrar *method.Registrar
	Registry  *method.Registry
	Audit     *audit.Service
	Issuer    *handlers.TokenIssuer
}

// NewRouter creates and configures a chi router with all routes.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// ===== PUBLIC ROUTES (no auth required) =====

	// Health check — unauthenticated, used by load balancers and health probes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	authHandler := handlers.NewAuthHandler(deps.Issuer)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.Token) // POST /auth/token
	})

	// ===== PROTECTED ROUTES (JWT required via AuthMiddleware) =====

	methodHandler := handlers.NewMethodHandler(deps.Registrar, deps.Registry)
	invokeHandler := handlers.NewInvokeHandler(deps.Engine)
	auditHandler := handlers.NewAuditHandler(deps.Audit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apmiddleware.AuthMiddleware)

		r.Route("/methods", func(r chi.Router) {
			r.Post("/", methodHandler.Register)                 // POST /api/v1/methods
			r.Get("/", methodHandler.List)                      // GET /api/v1/methods
			r.Post("/validate", methodHandler.Validate)         // POST /api/v1/methods/validate
			r.Get("/{name}", methodHandler.Get)                 // GET /api/v1/methods/{name}
			r.Delete("/{name}", methodHandler.Delete)           // DELETE /api/v1/methods/{name}
			r.Get("/{name}/audit", auditHandler.ListByMethod)   // GET /api/v1/methods/{name}/audit
		})

		r.Post("/invoke", invokeHandler.Invoke) // POST /api/v1/invoke
		r.Get("/audit", auditHandler.ListRecent)
	})

	return r
}
