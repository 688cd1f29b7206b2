package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Artifact storage
	StorageProvider string
	UploadDir       string
	AWSAccessKeyID  string
	AWSSecretKey    string
	AWSRegion       string
	AWSS3Bucket     string
	AWSS3Prefix     string

	// OCR engine
	OCRProvider        string
	OCRConcurrency     int
	TesseractPath      string
	TesseractLanguage  string
	GoogleVisionAPIKey string
	OCRSpaceAPIKey     string

	DefaultUserID   string
	MaxUploadSizeMB int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:     os.Getenv("PORT"),
		Env:      os.Getenv("ENV"),
		LogLevel: os.Getenv("LOG_LEVEL"),

		StorageProvider: strings.ToLower(os.Getenv("STORAGE_PROVIDER")),
		UploadDir:       os.Getenv("UPLOAD_DIR"),
		AWSAccessKeyID:  os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:    os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:       os.Getenv("AWS_REGION"),
		AWSS3Bucket:     os.Getenv("AWS_S3_BUCKET"),
		AWSS3Prefix:     os.Getenv("AWS_S3_PREFIX"),

		OCRProvider:        strings.ToLower(os.Getenv("OCR_PROVIDER")),
		OCRConcurrency:     envInt("OCR_CONCURRENCY", 1),
		TesseractPath:      os.Getenv("TESSERACT_PATH"),
		TesseractLanguage:  os.Getenv("TESSERACT_LANGUAGE"),
		GoogleVisionAPIKey: os.Getenv("GOOGLE_VISION_API_KEY"),
		OCRSpaceAPIKey:     os.Getenv("OCRSPACE_API_KEY"),

		DefaultUserID:   strings.TrimSpace(os.Getenv("DEFAULT_USER_ID")),
		MaxUploadSizeMB: envInt("MAX_UPLOAD_SIZE_MB", 10),
	}

	// Default values
	if cfg.Port == "" {
		cfg.Port = "8500"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.StorageProvider == "" {
		cfg.StorageProvider = "local"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "./uploads/nid_documents"
	}
	if cfg.AWSS3Prefix == "" {
		cfg.AWSS3Prefix = "nid_documents"
	}
	if cfg.OCRProvider == "" {
		cfg.OCRProvider = "tesseract"
	}
	if cfg.OCRConcurrency < 1 {
		cfg.OCRConcurrency = 1
	}
	if cfg.TesseractPath == "" {
		cfg.TesseractPath = "tesseract"
	}
	if cfg.TesseractLanguage == "" {
		cfg.TesseractLanguage = "eng"
	}
	if cfg.DefaultUserID == "" {
		// Legacy name used by the first deployment of the service
		cfg.DefaultUserID = strings.TrimSpace(os.Getenv("VOROSHA_USER_ID"))
	}
	if cfg.MaxUploadSizeMB < 1 {
		cfg.MaxUploadSizeMB = 10
	}

	return cfg
}

// MaxUploadSize returns the per-file upload limit in bytes
func (c *Config) MaxUploadSize() int64 {
	return int64(c.MaxUploadSizeMB) * 1024 * 1024
}

// IsProduction reports whether the service runs with production settings
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("⚠️ invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return v
}
