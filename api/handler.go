package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/SubuM/TTS-test/internal/auth"
	"github.com/SubuM/TTS-test/internal/db"
	"github.com/SubuM/TTS-test/internal/lang"
	"github.com/SubuM/TTS-test/internal/models"
	"github.com/SubuM/TTS-test/internal/ocr"
	"github.com/SubuM/TTS-test/internal/speech"
	"github.com/SubuM/TTS-test/internal/storage"
	"github.com/SubuM/TTS-test/internal/translate"
)

const (
	MaxUploadSize = 20 * 1024 * 1024 // 20MB
	Version       = "1.0.0"
)

// Handler handles HTTP requests for document and speech processing
type Handler struct {
	config       *models.Config
	engine       ocr.Engine
	detector     *ocr.Detector
	pdf          *ocr.PDFExtractor
	preprocessor *ocr.Preprocessor
	translator   *translate.ChunkedTranslator
	tts          speech.Synthesizer
	stt          speech.Transcriber
}

// NewHandler wires the processing pipeline from configuration.
func NewHandler(ctx context.Context, config *models.Config) (*Handler, error) {
	engine := ocr.NewTesseractEngine(config.OCR.TessdataPrefix)
	detector := ocr.NewDetector(engine, lang.NewDetector()).
		WithFallback(config.OCR.DefaultLanguage)

	var provider translate.Provider
	switch config.Translate.DefaultProvider {
	case "", "google":
		provider = translate.NewGoogleProvider(config.Translate.Google.BaseURL)
	case "gemini":
		gemini, err := translate.NewGeminiProvider(ctx, config.Translate.Gemini.APIKey, config.Translate.Gemini.Model)
		if err != nil {
			return nil, err
		}
		provider = gemini
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", config.Translate.DefaultProvider)
	}

	h := &Handler{
		config:       config,
		engine:       engine,
		detector:     detector,
		pdf:          ocr.NewPDFExtractor(engine, detector, config.OCR.PDFDPI),
		preprocessor: ocr.NewPreprocessor(),
		translator:   translate.NewChunkedTranslator(provider, config.Translate.MaxChunkLength),
		tts:          speech.NewGoogleTTS(config.Speech.TTSBaseURL),
	}

	// STT is optional: without an API key the endpoint reports unavailable
	if config.Speech.OpenAI.APIKey != "" {
		stt, err := speech.NewWhisperTranscriber(
			config.Speech.OpenAI.APIKey,
			config.Speech.OpenAI.BaseURL,
			config.Speech.OpenAI.Model,
		)
		if err != nil {
			return nil, err
		}
		h.stt = stt
	}

	return h, nil
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// Processing endpoints
	router.HandleFunc("/api/extract", h.Extract).Methods("POST")
	router.HandleFunc("/api/translate", h.Translate).Methods("POST")
	router.HandleFunc("/api/tts", h.TextToSpeech).Methods("POST")
	router.HandleFunc("/api/stt", h.SpeechToText).Methods("POST")

	// Account and usage
	router.HandleFunc("/api/me", h.Me).Methods("GET")
	router.HandleFunc("/api/stats", h.GetStats).Methods("GET")
	router.HandleFunc("/api/admin/stats", h.GetAdminStats).Methods("GET")

	// Health check
	router.HandleFunc("/health", h.Health).Methods("GET")

	return router
}

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string        `json:"status"`
	Version   string        `json:"version"`
	Timestamp string        `json:"timestamp"`
	Uptime    string        `json:"uptime"`
	Memory    MemoryStats   `json:"memory"`
	Tesseract ServiceStatus `json:"tesseract"`
	Poppler   ServiceStatus `json:"poppler"`
	Database  ServiceStatus `json:"database"`
	Storage   ServiceStatus `json:"storage"`
	STT       ServiceStatus `json:"stt"`
}

// MemoryStats represents memory usage statistics
type MemoryStats struct {
	Allocated string `json:"allocated"`
	Total     string `json:"total"`
	System    string `json:"system"`
}

// ServiceStatus represents the status of a service dependency
type ServiceStatus struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

var startTime = time.Now()

// Health endpoint - enhanced for monitoring
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	tesseractStatus := checkTesseract()
	popplerStatus := checkPoppler()

	response := HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(startTime).String(),
		Memory: MemoryStats{
			Allocated: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			Total:     fmt.Sprintf("%.2f MB", float64(m.TotalAlloc)/1024/1024),
			System:    fmt.Sprintf("%.2f MB", float64(m.Sys)/1024/1024),
		},
		Tesseract: tesseractStatus,
		Poppler:   popplerStatus,
		Database:  checkDatabase(),
		Storage:   checkStorage(),
		STT:       ServiceStatus{Available: h.stt != nil},
	}

	// OCR is the one dependency the service cannot run without
	if !tesseractStatus.Available {
		response.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

func checkTesseract() ServiceStatus {
	cmd := exec.Command("tesseract", "--version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return ServiceStatus{
			Available: false,
			Error:     "tesseract not found or not executable",
		}
	}

	version := "unknown"
	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		version = strings.TrimSpace(lines[0])
	}

	return ServiceStatus{Available: true, Version: version}
}

func checkPoppler() ServiceStatus {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return ServiceStatus{
			Available: false,
			Error:     "pdftoppm not found, PDF uploads will fail",
		}
	}
	return ServiceStatus{Available: true}
}

func checkDatabase() ServiceStatus {
	if db.Pool == nil {
		return ServiceStatus{
			Available: false,
			Error:     "database pool not initialized",
		}
	}
	return ServiceStatus{Available: true, Version: "PostgreSQL"}
}

func checkStorage() ServiceStatus {
	if storage.Client == nil {
		return ServiceStatus{
			Available: false,
			Error:     "storage client not initialized",
		}
	}
	return ServiceStatus{Available: true, Version: "MinIO S3"}
}

// Extract handles image and PDF uploads: POST /api/extract
//
// Without a "language" form value the language auto-detector picks the
// OCR profile; with one ("de", "deu", ...) that profile is used directly.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	start := time.Now()

	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized: "+err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		h.sendError(w, http.StatusBadRequest, "File too large or invalid form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		file, header, err = r.FormFile("document")
		if err != nil {
			h.sendError(w, http.StatusBadRequest, "No file provided (use 'file' or 'document' field)")
			return
		}
	}
	defer file.Close()

	fileData, err := io.ReadAll(file)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(fileData)
	}

	// Resolve an explicit language choice, if any
	manualProfile := ""
	if requested := r.FormValue("language"); requested != "" {
		manualProfile, err = resolveProfile(requested)
		if err != nil {
			h.sendError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	// Store the original upload (best effort)
	uploadURL := h.storeUpload(ctx, claims.Username, fileData, contentType)

	var result *ocr.Result
	if contentType == "application/pdf" {
		result, err = h.extractPDF(fileData, manualProfile)
	} else {
		result, err = h.extractImage(fileData, manualProfile)
	}

	totalDuration := time.Since(start).Seconds()

	if err != nil {
		log.Printf("[Extract] failed for user %s: %v", claims.Username, err)
		h.sendError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	iso := lang.TesseractToISO(result.Language)
	h.logActivity(claims, db.ActivityExtract, iso, "", len(result.Text))

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":        true,
		"text":           result.Text,
		"language":       result.Language,
		"language_code":  iso,
		"language_name":  lang.Name(iso),
		"char_count":     len(result.Text),
		"upload_url":     uploadURL,
		"total_duration": totalDuration,
	})
}

func (h *Handler) extractImage(imageData []byte, manualProfile string) (*ocr.Result, error) {
	if h.config.OCR.Preprocess {
		if enhanced, err := h.preprocessor.Enhance(imageData); err == nil {
			imageData = enhanced
		}
	}

	if manualProfile != "" {
		text, err := h.engine.ExtractText(imageData, manualProfile)
		if err != nil {
			return nil, &ocr.ExtractionError{Language: manualProfile, Err: err}
		}
		return &ocr.Result{Text: strings.TrimSpace(text), Language: manualProfile}, nil
	}

	return h.detector.DetectAndExtract(imageData)
}

func (h *Handler) extractPDF(pdfData []byte, manualProfile string) (*ocr.Result, error) {
	if manualProfile != "" {
		text, err := h.pdf.Extract(pdfData, manualProfile)
		if err != nil {
			return nil, err
		}
		return &ocr.Result{Text: text, Language: manualProfile}, nil
	}
	return h.pdf.ExtractAuto(pdfData)
}

// TranslateRequest is the JSON body of POST /api/translate
type TranslateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
}

// Translate runs the chunked translator: POST /api/translate
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TargetLang == "" {
		h.sendError(w, http.StatusBadRequest, "target_lang is required")
		return
	}

	start := time.Now()
	translated, err := h.translator.Translate(ctx, req.Text, req.TargetLang)
	if err != nil {
		log.Printf("[Translate] failed for user %s: %v", claims.Username, err)
		h.sendError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.logActivity(claims, db.ActivityTranslate, "", req.TargetLang, len(req.Text))

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":         true,
		"translated_text": translated,
		"target_lang":     req.TargetLang,
		"char_count":      len(translated),
		"total_duration":  time.Since(start).Seconds(),
	})
}

// TTSRequest is the JSON body of POST /api/tts
type TTSRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Slow     bool   `json:"slow"`
}

// TextToSpeech synthesizes MP3 audio: POST /api/tts
//
// When object storage is configured the MP3 is stored and a presigned
// download URL returned; otherwise the audio streams back directly.
func (h *Handler) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req TTSRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" || req.Language == "" {
		h.sendError(w, http.StatusBadRequest, "text and language are required")
		return
	}

	audio, err := h.tts.Synthesize(ctx, req.Text, req.Language, req.Slow)
	if err != nil {
		log.Printf("[TTS] failed for user %s: %v", claims.Username, err)
		h.sendError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.logActivity(claims, db.ActivityTTS, req.Language, "", len(req.Text))

	if storage.Client == nil {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
		return
	}

	filename := fmt.Sprintf("tts_%s_%s.mp3",
		time.Now().Format("20060102_150405"),
		uuid.New().String()[:8],
	)
	objectPath, err := storage.UploadUserFile(ctx, claims.Username, filename,
		bytes.NewReader(audio), int64(len(audio)), "audio/mpeg")
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to store audio")
		return
	}

	downloadURL, err := storage.GetPresignedURL(ctx, objectPath)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "failed to sign download URL")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    true,
		"audio_url":  downloadURL,
		"language":   req.Language,
		"char_count": len(req.Text),
		"size_bytes": len(audio),
	})
}

// SpeechToText transcribes uploaded audio: POST /api/stt
func (h *Handler) SpeechToText(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx := r.Context()
	claims, err := auth.GetClaimsFromContext(ctx)
	if err != nil {
		h.sendError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if h.stt == nil {
		h.sendError(w, http.StatusServiceUnavailable, "speech-to-text not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		h.sendError(w, http.StatusBadRequest, "File too large or invalid form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		file, header, err = r.FormFile("audio")
		if err != nil {
			h.sendError(w, http.StatusBadRequest, "No audio provided (use 'file' or 'audio' field)")
			return
		}
	}
	defer file.Close()

	audioData, err := io.ReadAll(file)
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "Failed to read audio")
		return
	}

	language := r.FormValue("language")

	start := time.Now()
	transcript, err := h.stt.Transcribe(ctx, audioData, header.Filename, language)
	if err != nil {
		log.Printf("[STT] failed for user %s: %v", claims.Username, err)
		h.sendError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.logActivity(claims, db.ActivitySTT, language, "", len(transcript))

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":        true,
		"transcript":     transcript,
		"language":       language,
		"word_count":     len(strings.Fields(transcript)),
		"total_duration": time.Since(start).Seconds(),
	})
}

// storeUpload keeps the original upload in object storage. Failure is
// logged but never fails the request: storage is optional.
func (h *Handler) storeUpload(ctx context.Context, username string, data []byte, contentType string) string {
	if storage.Client == nil {
		return ""
	}

	filename := fmt.Sprintf("%s_%s%s",
		time.Now().Format("20060102_150405"),
		uuid.New().String()[:8],
		storage.GetFileExtension(contentType),
	)

	objectPath, err := storage.UploadUserFile(ctx, username, filename,
		bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		log.Printf("Warning: failed to store upload: %v", err)
		return ""
	}
	return objectPath
}

// logActivity records a completed operation for usage stats. Failure is
// logged but never fails the request.
func (h *Handler) logActivity(claims *auth.Claims, activityType, sourceLang, targetLang string, charCount int) {
	if db.Pool == nil {
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		entry := &db.Activity{
			UserID:     userID,
			Type:       activityType,
			SourceLang: sourceLang,
			TargetLang: targetLang,
			CharCount:  charCount,
		}
		if err := db.LogActivity(ctx, entry); err != nil {
			log.Printf("Warning: failed to log activity: %v", err)
		}
	}()
}

// resolveProfile maps a user-supplied language ("de", "deu", "zh-CN")
// to a Tesseract profile.
func resolveProfile(requested string) (string, error) {
	if lang.IsTesseractProfile(requested) {
		return requested, nil
	}
	profile, err := lang.ISOToTesseract(requested)
	if err != nil {
		return "", fmt.Errorf("unsupported language %q", requested)
	}
	return profile, nil
}

// sendError sends an error response
func (h *Handler) sendError(w http.ResponseWriter, statusCode int, message string) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
