package config

import (
	"os"
)

// Config collects every environment-provided setting in one place so
// clients are constructed explicitly instead of reading the environment
// at call sites.
type Config struct {
	Port           string
	JWTSecret      string
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIKey      string
	AWSRegion      string
	DynamoEndpoint string
	PostgresURI    string
}

func Load() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash-image-preview"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		DynamoEndpoint: os.Getenv("DYNAMO_ENDPOINT"),
		PostgresURI:    os.Getenv("POSTGRES_URI"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
