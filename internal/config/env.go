package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDSN string

	JWTSecret string

	GeminiAPIKey string
	GeminiModel  string

	AmadeusBaseURL      string
	AmadeusClientID     string
	AmadeusClientSecret string

	StorageDir       string
	StoragePublicURL string

	AMQPURL      string
	AMQPExchange string

	CORSAllowedOrigins []string
}

// LoadEnv reads .env (when present) and the process environment.
func LoadEnv() Env {
	_ = godotenv.Load()

	corsOrigins := []string{}
	for _, o := range strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}

	return Env{
		AppAddr: getenv("APP_ADDR", ":8080"),
		GinMode: getenv("GIN_MODE", ""),

		DBDSN: buildDSN(),

		JWTSecret: getenv("JWT_SECRET", "change-me-backoffice-secret"),

		GeminiAPIKey: getenv("GEMINI_API_KEY", ""),
		GeminiModel:  getenv("GEMINI_MODEL", "gemini-flash-latest"),

		AmadeusBaseURL:      getenv("AMADEUS_BASE_URL", "https://test.api.amadeus.com"),
		AmadeusClientID:     getenv("AMADEUS_CLIENT_ID", ""),
		AmadeusClientSecret: getenv("AMADEUS_CLIENT_SECRET", ""),

		StorageDir:       getenv("STORAGE_DIR", "./storage"),
		StoragePublicURL: getenv("STORAGE_PUBLIC_URL", "/storage"),

		AMQPURL:      getenv("AMQP_URL", ""),
		AMQPExchange: getenv("AMQP_EXCHANGE", "backoffice.changes"),

		CORSAllowedOrigins: corsOrigins,
	}
}

func buildDSN() string {
	if dsn := getenv("DB_DSN", ""); dsn != "" {
		return dsn
	}
	return getenv("DB_USER", "root") + ":" + getenv("DB_PASSWORD", "") +
		"@tcp(" + getenv("DB_HOST", "127.0.0.1:3306") + ")/" + getenv("DB_NAME", "backoffice") +
		"?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}
