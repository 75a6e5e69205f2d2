package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/SubuM/TTS-test/api"
	"github.com/SubuM/TTS-test/internal/auth"
	"github.com/SubuM/TTS-test/internal/db"
	"github.com/SubuM/TTS-test/internal/models"
	"github.com/SubuM/TTS-test/internal/storage"
)

func main() {
	// Local development convenience, ignored when the file is absent
	godotenv.Load()

	// Initialize JWT
	if err := auth.Init(); err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}
	log.Println("JWT authentication initialized")

	// Initialize database connection pool
	if err := db.Init(); err != nil {
		log.Printf("Warning: Database not available: %v", err)
		log.Println("Running without accounts or activity logging")
	} else {
		defer db.Close()
		log.Println("Database connection pool initialized")
	}

	// Initialize MinIO storage
	if err := storage.Init(); err != nil {
		log.Printf("Warning: MinIO storage not available: %v", err)
		log.Println("Uploads and generated audio will not be stored")
	} else {
		log.Println("MinIO storage initialized")
	}

	// Load configuration
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Create API handler
	handler, err := api.NewHandler(context.Background(), config)
	if err != nil {
		log.Fatalf("Failed to create handler: %v", err)
	}
	router := handler.SetupRoutes()

	// Account endpoints live outside the protected handler set
	router.HandleFunc("/api/register", auth.RegisterHandler).Methods("POST")
	router.HandleFunc("/api/login", auth.LoginHandler).Methods("POST")

	// Wrap router with JWT middleware (skips /health, /api/login, /api/register)
	protectedRouter := auth.JWTMiddleware(router)

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	log.Printf("Starting Document Language Service v%s on %s", api.Version, addr)
	log.Printf("Translation provider: %s", config.Translate.DefaultProvider)
	log.Printf("Database: %v", db.Pool != nil)
	log.Printf("Storage: %v", storage.Client != nil)
	log.Printf("Endpoints:")
	log.Printf("  POST http://%s/api/register      - Create account", addr)
	log.Printf("  POST http://%s/api/login         - Authenticate", addr)
	log.Printf("  POST http://%s/api/extract       - OCR image/PDF with language detection (requires JWT)", addr)
	log.Printf("  POST http://%s/api/translate     - Translate text (requires JWT)", addr)
	log.Printf("  POST http://%s/api/tts           - Synthesize speech (requires JWT)", addr)
	log.Printf("  POST http://%s/api/stt           - Transcribe audio (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/me            - Account and usage (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/stats         - Usage stats (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/admin/stats   - All-user stats (requires admin JWT)", addr)
	log.Printf("  GET  http://%s/health            - Health check", addr)

	if err := http.ListenAndServe(addr, protectedRouter); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func loadConfig(path string) (*models.Config, error) {
	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var config models.Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables if present
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &config.Port)
	}
	if host := os.Getenv("HOST"); host != "" {
		config.Host = host
	}
	if prefix := os.Getenv("TESSDATA_PREFIX"); prefix != "" {
		config.OCR.TessdataPrefix = prefix
	}
	if provider := os.Getenv("TRANSLATE_PROVIDER"); provider != "" {
		config.Translate.DefaultProvider = provider
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Translate.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.Translate.Gemini.Model = model
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.Speech.OpenAI.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.Speech.OpenAI.BaseURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		config.Speech.OpenAI.Model = model
	}

	return &config, nil
}
