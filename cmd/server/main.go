package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studysection/notes-backend/internal/auth"
	"github.com/studysection/notes-backend/internal/config"
	"github.com/studysection/notes-backend/internal/diagram"
	"github.com/studysection/notes-backend/internal/logger"
	"github.com/studysection/notes-backend/internal/middleware"
	"github.com/studysection/notes-backend/internal/notes"
	"github.com/studysection/notes-backend/internal/store"
)

func main() {
	log := logger.New("notes-backend")

	// Config is validated up front: a missing JWT secret or Mongo URI
	// kills the process here, never a request later.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx := context.Background()

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer mongoClient.Disconnect(ctx)
	db := mongoClient.Database(cfg.MongoDB)

	users := store.NewUserStore(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}
	noteStore := store.NewNoteStore(db)

	// ── Services & handlers ──────────────────────────────────
	tokens := auth.NewTokenService(cfg.JWTSecret)
	authHandler := auth.NewHandler(users, tokens, log)
	noteHandler := notes.NewHandler(noteStore, log)
	diagramHandler := diagram.NewHandler(diagram.NewClient(cfg.OCRServiceURL), log)

	r := newRouter(cfg.CORSOrigins, tokens, authHandler, noteHandler, diagramHandler)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}

// newRouter wires every route. All note and diagram routes sit behind
// the single bearer-token gate.
func newRouter(
	corsOrigins []string,
	tokens middleware.TokenVerifier,
	authHandler *auth.Handler,
	noteHandler *notes.Handler,
	diagramHandler *diagram.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Public auth routes
	r.Post("/signup", authHandler.Signup)
	r.Post("/login", authHandler.Login)

	r.With(middleware.RequireAuth(tokens)).Get("/dashboard", authHandler.Dashboard)

	// Note routes (protected)
	r.Route("/notes", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		r.Get("/", noteHandler.List)
		r.Post("/", noteHandler.Create)
		r.Delete("/{id}", noteHandler.Delete)
		r.Patch("/{id}", noteHandler.UpdateTitle)
		r.Patch("/{id}/favorite", noteHandler.ToggleFavorite)
		r.Patch("/{id}/content", noteHandler.UpdateContent)
		r.Post("/{id}/images", noteHandler.UploadImage)
		r.Delete("/{id}/images/{filename}", noteHandler.DeleteImage)
	})

	// Diagram routes (protected)
	r.Route("/diagrams", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		r.Post("/upload", diagramHandler.Upload)
	})

	return r
}
