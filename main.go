package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forkful/boards"
	"forkful/datastore"
	"forkful/hub"
	"forkful/mirror"
	"forkful/models"
	"forkful/ratelim"
	"forkful/recipes"
	"forkful/routes"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s in %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	store := datastore.NewMongoStore()

	// local mirrors fed by whole-collection snapshot pushes
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recipeMirror := mirror.New[models.Recipe]()
	recipeMirror.Attach(datastore.Subscribe(ctx, datastore.CollRecipes, store.ListRecipes))
	boardMirror := mirror.New[models.Board]()
	boardMirror.Attach(datastore.Subscribe(ctx, datastore.CollBoards, store.ListBoards))

	liveHub := hub.NewHub(recipeMirror, boardMirror, store, store)
	liveHub.Start()

	rateLimiter := ratelim.NewRateLimiter()
	recipeHandler := &recipes.Handler{Recipes: recipeMirror, Boards: boardMirror, Docs: store, Blobs: store}
	boardHandler := &boards.Handler{Recipes: recipeMirror, Boards: boardMirror, Docs: store, Blobs: store}

	router := httprouter.New()
	router.GET("/health", Index)
	routes.AddStaticRoutes(router)
	routes.AddAuthRoutes(router, rateLimiter)
	routes.AddRecipeRoutes(router, rateLimiter, recipeHandler)
	routes.AddBoardRoutes(router, rateLimiter, boardHandler)
	routes.AddLiveRoutes(router, liveHub)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("Shutting down live hub...")
		liveHub.Stop()
		recipeMirror.Close()
		boardMirror.Close()
	})

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly")
}
