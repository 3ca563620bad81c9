package routes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"blogapi/app/controllers"
	"blogapi/app/middleware"
	"blogapi/app/repositories"
	"blogapi/app/services"

	"github.com/gorilla/mux"
)

// Dependencies are the collaborators the router is built from.
type Dependencies struct {
	Store  repositories.Store
	Logger *slog.Logger
	// Clock defaults to services.SystemClock.
	Clock services.Clock
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(deps Dependencies) *mux.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	postService := services.NewPostService(deps.Store.Posts(), deps.Clock)
	commentService := services.NewCommentService(deps.Store.Comments(), deps.Store.Posts(), deps.Clock)
	userService := services.NewUserService(deps.Store.Users(), deps.BcryptCost, deps.Clock)

	postController := controllers.NewPostController(postService, logger)
	commentController := controllers.NewCommentController(commentService, postService, logger)

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.ContentTypeJSON)

	// Router middleware only wraps matched routes.
	wrap := func(h http.Handler) http.Handler {
		return middleware.RequestID(middleware.Logger(logger)(h))
	}
	router.NotFoundHandler = wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "not found")
	}))
	router.MethodNotAllowedHandler = wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	}))

	isInvalid := func(err error) bool { return errors.Is(err, services.ErrInvalidCredentials) }
	requireAuth := middleware.RequireAuth(userService, isInvalid, logger)
	authed := func(h http.HandlerFunc) http.Handler { return requireAuth(h) }

	router.HandleFunc("/healthz", healthHandler(deps.Store, logger)).Methods("GET")

	// API routes are registered flat on the root router. Subrouter routes
	// inherit the prefix matcher, and a matching prefix on a later route
	// clears mux's method mismatch, which turns a 405 into a 404.

	// Posts API endpoints
	router.HandleFunc("/api/posts", postController.List).Methods("GET")
	router.Handle("/api/posts", authed(postController.Create)).Methods("POST")
	router.Handle("/api/posts/drafts", authed(postController.Drafts)).Methods("GET")
	router.HandleFunc("/api/posts/{id:[0-9]+}", postController.Detail).Methods("GET")
	router.HandleFunc("/api/posts/{id:[0-9]+}", postController.Remove).Methods("DELETE")
	router.Handle("/api/posts/{id:[0-9]+}/edit", authed(postController.Edit)).Methods("POST")
	router.Handle("/api/posts/{id:[0-9]+}/publish", authed(postController.Publish)).Methods("POST")

	// Comments API endpoints
	router.HandleFunc("/api/posts/{id:[0-9]+}/comments", commentController.List).Methods("GET")
	router.HandleFunc("/api/posts/{id:[0-9]+}/comments", commentController.Add).Methods("POST")
	router.Handle("/api/comments/{id:[0-9]+}/approve", authed(commentController.Approve))
	router.HandleFunc("/api/comments/{id:[0-9]+}/edit", commentController.Edit).Methods("POST")
	router.HandleFunc("/api/comments/{id:[0-9]+}", commentController.Remove).Methods("DELETE")

	return router
}

func healthHandler(store repositories.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := store.Ping(r.Context()); err != nil {
			logger.Error("health check", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// NewServer wraps router in an http.Server listening on addr.
func NewServer(addr string, router http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
