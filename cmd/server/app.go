package main

import (
	"net/http"

	"github.com/diewo77/parkgate/internal/auth"
	"github.com/diewo77/parkgate/internal/handlers"
	"github.com/diewo77/parkgate/internal/httpx"
	"github.com/diewo77/parkgate/internal/services"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux *http.ServeMux
	db  *gorm.DB
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB) *App {
	app := &App{mux: http.NewServeMux(), db: db}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler. The auth middleware resolves the session
// to a fresh identity on every request.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	auth.Middleware(a.db)(a.mux).ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	apartmentSvc := services.NewApartmentService(a.db)
	permitSvc := services.NewPermitService(a.db, apartmentSvc)

	ah := handlers.NewAuthHandler(a.db)
	aph := handlers.NewApartmentHandler(apartmentSvc)
	ph := handlers.NewPermitHandler(permitSvc)

	// Public
	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("POST /logout", ah.Logout)

	// Apartment registry
	a.mux.Handle("POST /apartments", auth.RequireAuth(http.HandlerFunc(aph.Create)))
	a.mux.Handle("GET /apartments", auth.RequireAuth(http.HandlerFunc(aph.List)))
	a.mux.Handle("GET /apartments/my", auth.RequireAuth(http.HandlerFunc(aph.ListMine)))
	a.mux.Handle("GET /apartments/{id}", auth.RequireAuth(http.HandlerFunc(aph.Get)))
	a.mux.Handle("PUT /apartments/{id}", auth.RequireAuth(http.HandlerFunc(aph.Update)))
	a.mux.Handle("DELETE /apartments/{id}", auth.RequireAuth(http.HandlerFunc(aph.Delete)))

	// Parking ledger
	a.mux.Handle("POST /apartments/{id}/vehicles", auth.RequireAuth(http.HandlerFunc(ph.Add)))
	a.mux.Handle("GET /apartments/{id}/vehicles", auth.RequireAuth(http.HandlerFunc(ph.List)))
	a.mux.Handle("GET /apartments/{id}/vehicles/check/{plate}", auth.RequireAuth(http.HandlerFunc(ph.Check)))
	a.mux.Handle("PATCH /apartments/{id}/vehicles/{plate}", auth.RequireAuth(http.HandlerFunc(ph.Update)))
	a.mux.Handle("DELETE /apartments/{id}/vehicles/{plate}", auth.RequireAuth(http.HandlerFunc(ph.Remove)))
}
