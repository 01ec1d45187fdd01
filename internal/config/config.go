package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port          string   `envconfig:"PORT" default:"5000"`
	MongoURI      string   `envconfig:"MONGO_URI" required:"true"`
	MongoDB       string   `envconfig:"MONGO_DB" default:"study_notes"`
	JWTSecret     string   `envconfig:"JWT_SECRET" required:"true"`
	OCRServiceURL string   `envconfig:"OCR_SERVICE_URL" default:"https://study-section.onrender.com"`
	CORSOrigins   []string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	Environment   string   `envconfig:"ENVIRONMENT" default:"development"`
}

// Load reads .env (if present) and the process environment. A missing
// MONGO_URI or JWT_SECRET fails here, before anything starts listening.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
