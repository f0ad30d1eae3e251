package config

import (
	"os"

	"github.com/joho/godotenv"

	"piar/pkg/logger"
)

type AppConfig struct {
	Port            string
	DBPath          string
	LLMEndpoint     string
	LLMAPIKey       string
	LLMModel        string
	EmbedEndpoint   string
	EmbedAPIKey     string
	EmbedModel      string
	DefaultLanguage string
	CatalogCSV      string
	CatalogXLSX     string
}

func Load(log *logger.Logger) AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", "error", err)
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	cfg := AppConfig{
		Port:            get("PORT", "8080"),
		DBPath:          get("DB_PATH", "piar.db"),
		LLMEndpoint:     get("LLM_ENDPOINT", ""),
		LLMAPIKey:       get("LLM_API_KEY", ""),
		LLMModel:        get("LLM_MODEL", "gpt-4o-mini"),
		EmbedEndpoint:   get("EMBED_ENDPOINT", ""),
		EmbedAPIKey:     get("EMBED_API_KEY", ""),
		EmbedModel:      get("EMBED_MODEL", "text-embedding-3-small"),
		DefaultLanguage: get("DEFAULT_LANGUAGE", "es"),
		CatalogCSV:      get("CATALOG_CSV", ""),
		CatalogXLSX:     get("CATALOG_XLSX", ""),
	}
	log.Info("config loaded",
		"port", cfg.Port,
		"db_path", cfg.DBPath,
		"llm_endpoint", cfg.LLMEndpoint,
		"llm_model", cfg.LLMModel,
		"default_language", cfg.DefaultLanguage,
	)
	return cfg
}
