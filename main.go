package main

import (
	"log"
	"time"

	"fitroom/config"
	"fitroom/controllers"
	"fitroom/routes"
	"fitroom/services"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	db, err := services.NewDynamoClient(cfg)
	if err != nil {
		log.Fatalf("Failed to create DynamoDB client: %v", err)
	}
	services.EnsureTables(db)

	auth := services.NewAuthService(cfg.JWTSecret, 7*24*time.Hour)
	users := services.NewUserService(db)
	trials := services.NewTrialService(db)
	gemini := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)

	deps := routes.Deps{
		Auth:    auth,
		Users:   controllers.NewAuthController(users, auth),
		Profile: controllers.NewProfileController(users),
		Trials:  controllers.NewTrialController(trials),
		Gemini:  controllers.NewGeminiController(gemini),
	}

	if cfg.PostgresURI != "" {
		summaries, err := services.NewSummaryService(cfg.PostgresURI, cfg.OpenAIKey)
		if err != nil {
			log.Fatalf("Failed to set up summary service: %v", err)
		}
		deps.Summary = controllers.NewSummaryController(trials, summaries)
	} else {
		log.Printf("POSTGRES_URI not set, trial summaries disabled")
	}

	router := routes.SetupRouter(deps)

	port := ":" + cfg.Port
	log.Printf("Server starting on port %s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
