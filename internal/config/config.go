package config

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Settings struct {
	Env          string
	Port         string
	DataDir      string
	ProfileDir   string
	DatabaseDSN  string
	RedisURL     string
	CookieDomain string
	FrontendURL  string
}

var (
	Logger = logrus.New()
	App    Settings
)

func Init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		Logger.WithError(err).Warn("Failed to load .env file")
	}

	App = Settings{
		Env:          getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "8080"),
		DataDir:      getEnv("DATA_DIR", "training-data"),
		ProfileDir:   getEnv("PROFILE_DIR", "user_profiles"),
		DatabaseDSN:  os.Getenv("DATABASE_DSN"),
		RedisURL:     os.Getenv("REDIS_URL"),
		CookieDomain: os.Getenv("COOKIE_DOMAIN"),
		FrontendURL:  getEnv("FRONTEND_URL", "/"),
	}

	Logger.SetOutput(os.Stdout)
	if App.IsProduction() {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
}

func (s Settings) IsProduction() bool {
	return strings.EqualFold(s.Env, "production") || strings.EqualFold(s.Env, "prod")
}

func WithContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(Logger)
	if ctx == nil {
		return entry
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		entry = entry.WithField("request_id", reqID)
	}
	return entry
}

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		Logger.WithError(err).Error("Failed to encode JSON response")
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
