package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"rbar/docs" //this is required to generate swagger docs
	"rbar/internal/auth"
	"rbar/internal/domain/storage"
	"rbar/internal/geocoding"
	"rbar/internal/ratelimiter"
	"rbar/internal/search"
	"rbar/internal/sportsdb"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// syncRunner is satisfied by *sportsdb.Syncer.
type syncRunner interface {
	Run(ctx context.Context) (sportsdb.Report, error)
}

type application struct {
	config        config
	store         *storage.Container
	search        *search.Service
	geocoder      geocoding.Geocoder
	syncer        syncRunner
	syncMu        sync.Mutex // one sync at a time
	logger        *zap.SugaredLogger
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	registry      *prometheus.Registry
}

type config struct {
	addr        string
	env         string
	apiURL      string
	db          dbConfig
	auth        authConfig
	rateLimiter ratelimiter.Config
	geocoder    geocoderConfig
	sportsDB    sportsDBConfig
}

type authConfig struct {
	basic       basicConfig
	token       tokenConfig
	adminSecret string
}

type tokenConfig struct {
	refreshSecret string
	secret        string
	iss           string
}

type basicConfig struct {
	user string
	pass string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

type geocoderConfig struct {
	baseURL   string
	userAgent string
	rate      float64
}

type sportsDBConfig struct {
	baseURL      string
	apiKey       string
	leaguesFile  string
	syncInterval time.Duration
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Use(app.RateLimiterMiddleware)

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	if app.registry != nil {
		r.With(app.BasicAuthMiddleware()).Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Route("/venues", func(r chi.Router) {
			r.Get("/nearby", app.nearbyVenuesHandler)
			r.Get("/search", app.searchVenuesHandler)
			// {venue} is a slug or id on the detail route and an id below it
			r.Get("/{venue}", app.getVenueHandler)

			r.Route("/{venue}/reviews", func(r chi.Router) {
				r.Get("/", app.getVenueReviewsHandler)
				r.With(app.AuthTokenMiddleware).Post("/", app.upsertVenueReviewHandler)
				r.With(app.AuthTokenMiddleware).Delete("/{reviewID}", app.deleteVenueReviewHandler)
			})
		})

		r.Get("/geocode", app.geocodeHandler)

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", app.listTeamsHandler)
			r.Get("/{teamID}/games", app.teamGamesHandler)
			r.With(app.AuthTokenMiddleware).Put("/{teamID}/favorite", app.toggleFavoriteTeamHandler)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/me/teams", app.favoriteTeamsHandler)
		})

		// Public routes
		r.Route("/authentication", func(r chi.Router) {
			r.Post("/user", app.registerUserHandler)
			r.Post("/token", app.createTokenHandler)
			r.Post("/refresh", app.refreshTokenHandler)
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(app.AdminSecretMiddleware).Post("/sync", app.adminSyncHandler)
			r.With(app.AuthTokenMiddleware, app.RequireAdmin).Get("/match-reviews", app.listMatchReviewsHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/v1"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
