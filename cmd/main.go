package main

import (
	"context"

	"complaint-tracking-backend/config"
	"complaint-tracking-backend/middleware"
	"complaint-tracking-backend/notifications"
	"complaint-tracking-backend/token"
	"complaint-tracking-backend/utils"

	// Repositories
	complaints_repositories "complaint-tracking-backend/complaints/repositories"
	departments_repositories "complaint-tracking-backend/departments/repositories"
	documents_repositories "complaint-tracking-backend/documents/repositories"
	search_repositories "complaint-tracking-backend/search/repositories"
	users_repositories "complaint-tracking-backend/users/repositories"

	// Services
	complaints_services "complaint-tracking-backend/complaints/services"
	documents_services "complaint-tracking-backend/documents/services"
	search_services "complaint-tracking-backend/search/services"

	// Routes
	complaint_routes "complaint-tracking-backend/complaints/routes"
	department_routes "complaint-tracking-backend/departments/routes"
	document_routes "complaint-tracking-backend/documents/routes"
	user_routes "complaint-tracking-backend/users/routes"

	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	config.InitLogger()

	if err := godotenv.Load(".env"); err != nil {
		config.Logger.Warn("No .env file found, relying on environment", zap.Error(err))
	}

	app := fiber.New()
	middleware.InitCors(app)

	db := config.ConfigureDatabase()
	port := config.GetEnvDefault("PORT", "8080")
	ctx := context.Background()

	redisClient := config.InitRedisServer(ctx)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.GetEnvDefault("REDIS_ADDRESS", "localhost:6379"),
		Password: config.GetEnv("REDIS_PASSWORD"),
		DB:       0,
	})
	defer asynqClient.Close()

	tokenMaker, err := token.NewPasetoMaker(config.GetEnv("TOKEN_SYMMETRIC_KEY"))
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}

	indexPath := config.GetEnvDefault("BLEVE_INDEX_PATH", "./bleve_data")
	baseURL := config.GetEnvDefault("BASE_URL", "http://localhost:"+port)

	utils.InitializeMailer()
	if utils.GetMailer() == nil {
		config.Logger.Fatal("Mailer not initialized")
	}

	app.Static("/public", "./public")

	appContext := &middleware.AppContext{
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		RedisClient: redisClient,
	}

	// Repositories
	userRepo := users_repositories.NewUserRepository(db)
	departmentRepo := departments_repositories.NewDepartmentRepository(db)
	complaintRepo := complaints_repositories.NewComplaintRepository(db)
	fileRepo := documents_repositories.NewFileRepository(db)

	indexingService := search_services.NewIndexingService(config.Logger, indexPath)
	searchRepo := search_repositories.NewComplaintSearchRepository(indexingService)

	// Services
	dispatcher := notifications.NewDispatcher(asynqClient)
	fileStorage := utils.NewLocalFileStorage("./uploads")
	urlSigner := documents_services.NewURLSigner(
		config.GetEnv("FILE_URL_SIGNING_KEY"), baseURL, 15*time.Minute)
	documentService := documents_services.NewDocumentService(fileRepo, fileStorage, urlSigner)
	complaintService := complaints_services.NewComplaintService(
		complaintRepo, departmentRepo, userRepo, fileRepo, dispatcher, searchRepo)

	// Routes
	user_routes.UserRouterInit(app, db, userRepo, departmentRepo, tokenMaker, dispatcher, appContext)
	department_routes.DepartmentRouterInit(app, db, departmentRepo, appContext)
	document_routes.DocumentRouterInit(app, documentService, appContext)
	complaint_routes.ComplaintRouterInit(app, complaintService, complaintRepo, searchRepo, documentService, appContext)

	// Rebuild the search index if it is missing (first boot or wiped volume)
	if exists, err := indexingService.IndexExists("complaints"); err == nil && !exists {
		go func() {
			complaints, err := complaintRepo.GetAllComplaints()
			if err != nil {
				config.Logger.Error("Failed to load complaints for indexing", zap.Error(err))
				return
			}
			if err := searchRepo.IndexExistingComplaints(complaints); err != nil {
				config.Logger.Error("Failed to rebuild complaint index", zap.Error(err))
			}
		}()
	}

	go utils.RunScheduledCleanup(redisClient)

	config.Logger.Info("Server starting", zap.String("port", port))
	config.Logger.Fatal("Server failed", zap.String("port", port), zap.Error(app.Listen(":"+port)))
}
