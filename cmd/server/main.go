// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/curalytica/assistant/internal/config"
	"github.com/curalytica/assistant/internal/handlers"
	"github.com/curalytica/assistant/internal/middleware"
	"github.com/curalytica/assistant/internal/ratelimit"
	"github.com/curalytica/assistant/internal/repository/preference"
	"github.com/curalytica/assistant/internal/services"
	"github.com/curalytica/assistant/internal/services/assistant"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("curalytica")

	db, err := gorm.Open(sqlite.Open(cfg.PreferenceDBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&preference.Preference{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	prefRepo := preference.NewPreferenceRepository(db)

	// --- Services ---
	assistantConfig := assistant.DefaultConfig()
	assistantConfig.BaseURL = cfg.AssistantBaseURL

	backend, err := assistant.NewClient(assistantConfig)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize assistant client: %v", err)
	}

	profileService := services.NewProfileService()
	preferenceService := services.NewPreferenceService(prefRepo, logger)

	sessionService, err := services.NewSessionService(backend, profileService, cfg.HistoryWindow, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize session service: %v", err)
	}

	// --- Handlers ---
	chatHandler, err := handlers.NewChatHandler(sessionService)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize chat handler: %v", err)
	}

	attachmentHandler, err := handlers.NewAttachmentHandler(sessionService)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize attachment handler: %v", err)
	}

	settingsHandler, err := handlers.NewSettingsHandler(profileService, preferenceService)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize settings handler: %v", err)
	}

	pageHandler := handlers.NewPageHandler(sessionService, profileService, preferenceService)

	// Rate limiting guards the routes that fan out to the remote backend.
	sendLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultSendConfig())

	// --- Router Setup ---
	r := mux.NewRouter()

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")

	r.HandleFunc("/", pageHandler.ShowChatPage).Methods("GET")
	r.HandleFunc("/previews/{id}", attachmentHandler.ServePreview).Methods("GET")

	r.HandleFunc("/chats/new", chatHandler.HandleNewChat).Methods("POST")
	r.HandleFunc("/chats/{id}/open", chatHandler.HandleLoadChat).Methods("POST")
	r.HandleFunc("/chats/{id}/delete", chatHandler.HandleDeleteChat).Methods("POST")
	r.HandleFunc("/chats/tool", chatHandler.HandleSetTool).Methods("POST")

	r.HandleFunc("/settings/profile", settingsHandler.HandleUpdateProfile).Methods("POST")
	r.HandleFunc("/settings/theme", settingsHandler.HandleToggleTheme).Methods("POST")
	r.HandleFunc("/settings/sidebar", settingsHandler.HandleToggleSidebar).Methods("POST")

	// Backend-bound routes sit behind the limiter.
	limited := r.PathPrefix("/").Subrouter()
	limited.Use(middleware.RateLimitMiddleware(sendLimiter, "send"))
	limited.HandleFunc("/chats/send", chatHandler.HandleSend).Methods("POST")
	limited.HandleFunc("/attachments", attachmentHandler.HandleUpload).Methods("POST")
	limited.HandleFunc("/attachments/clear", attachmentHandler.HandleClear).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", chatHandler.GetState).Methods("GET")

	// --- Custom Error Handlers ---
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageHandler.ShowErrorPage(w, "404", "Page Not Found", "The page you are looking for does not exist.")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageHandler.ShowErrorPage(w, "405", "Method Not Allowed", "The method is not allowed for this resource.")
	})

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("CuraLytica medical assistant client")
	log.Printf("Server starting on http://localhost%s", port)
	log.Printf("Assistant backend: %s", cfg.AssistantBaseURL)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	// Let in-flight title upgrades settle before exit.
	sessionService.Wait()
	sendLimiter.Close()

	log.Println("Server stopped gracefully")
}
