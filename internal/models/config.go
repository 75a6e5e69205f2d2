package models

// Config is the top-level service configuration loaded from config.yaml
type Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	OCR       OCRConfig       `yaml:"ocr"`
	Translate TranslateConfig `yaml:"translate"`
	Speech    SpeechConfig    `yaml:"speech"`
}

// OCRConfig configures the Tesseract engine and the language auto-detector
type OCRConfig struct {
	// TessdataPrefix overrides the tessdata directory, empty uses the system default
	TessdataPrefix string `yaml:"tessdataPrefix"`

	// DefaultLanguage is the fallback OCR profile when auto-detection finds nothing
	DefaultLanguage string `yaml:"defaultLanguage"`

	// Preprocess enables the ImageMagick grayscale/contrast pipeline before OCR
	Preprocess bool `yaml:"preprocess"`

	// PDFDPI is the render resolution for PDF pages (pdftoppm)
	PDFDPI int `yaml:"pdfDpi"`
}

// TranslateConfig selects and configures the translation provider
type TranslateConfig struct {
	// DefaultProvider is "google" or "gemini"
	DefaultProvider string `yaml:"defaultProvider"`

	// MaxChunkLength caps a single provider call, 0 uses the built-in default
	MaxChunkLength int `yaml:"maxChunkLength"`

	Google GoogleTranslateConfig `yaml:"google"`
	Gemini GeminiConfig          `yaml:"gemini"`
}

// GoogleTranslateConfig configures the Google Translate web endpoint client
type GoogleTranslateConfig struct {
	BaseURL string `yaml:"baseUrl"`
}

// GeminiConfig configures the Gemini translation provider
type GeminiConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// SpeechConfig configures TTS and STT
type SpeechConfig struct {
	// TTSBaseURL is the Google Translate TTS endpoint
	TTSBaseURL string `yaml:"ttsBaseUrl"`

	// OpenAI is used for Whisper speech-to-text
	OpenAI OpenAIConfig `yaml:"openai"`
}

// OpenAIConfig configures the OpenAI client (Whisper transcription)
type OpenAIConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseUrl"`
	Model   string `yaml:"model"`
}
