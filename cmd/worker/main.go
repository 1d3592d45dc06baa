package main

import (
	"complaint-tracking-backend/config"
	"complaint-tracking-backend/notifications"
	"complaint-tracking-backend/utils"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	config.InitLogger()

	if err := godotenv.Load(".env"); err != nil {
		config.Logger.Warn("No .env file found, relying on environment", zap.Error(err))
	}

	utils.InitializeMailer()
	if utils.GetMailer() == nil {
		config.Logger.Fatal("Mailer not initialized")
	}

	whatsapp, err := notifications.NewWhatsAppSender(
		config.GetEnv("WHATSAPP_API_URL"),
		config.GetEnv("WHATSAPP_API_TOKEN"),
		config.GetEnv("WHATSAPP_FROM_NUMBER"),
	)
	if err != nil {
		config.Logger.Fatal("Cannot create WhatsApp sender", zap.Error(err))
	}

	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     config.GetEnvDefault("REDIS_ADDRESS", "localhost:6379"),
			Password: config.GetEnv("REDIS_PASSWORD"),
			DB:       0,
		},
		asynq.Config{
			Concurrency: 10,
		},
	)

	mux := asynq.NewServeMux()
	notifications.NewProcessor(whatsapp).Register(mux)

	config.Logger.Info("Notification worker starting")
	if err := server.Run(mux); err != nil {
		config.Logger.Fatal("Worker failed", zap.Error(err))
	}
}
