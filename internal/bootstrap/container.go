package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"prepezia-be/internal/config"
	"prepezia-be/internal/controller"
	"prepezia-be/internal/handler"
	"prepezia-be/internal/pkg/logger"
	"prepezia-be/internal/pkg/mailer"
	"prepezia-be/internal/repository/memory"
	"prepezia-be/internal/repository/unitofwork"
	"prepezia-be/internal/service"
	"prepezia-be/internal/websocket"
	"prepezia-be/pkg/embedding"
	"prepezia-be/pkg/genai"
	pktNats "prepezia-be/pkg/nats"
	"prepezia-be/pkg/storage"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	UserController     controller.IUserController
	NoteController     controller.INoteController
	StudioController   controller.IStudioController
	ProgressController controller.IProgressController
	ExamController     controller.IExamController
	CoachController    controller.ICoachController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	StudyEventsHandler *handler.StudyEventsHandler
	WebSocketHub       *websocket.Hub

	// Shared logger for the HTTP layer
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(cfg, sysLogger)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	flowProvider, err := genai.NewFlowProvider(
		cfg.Ai.FlowProvider,
		cfg.Keys.GoogleGemini,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OllamaModel,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize flow provider: %v", err)
	}
	log.Printf("[INFO] Using flow provider: %s", cfg.Ai.FlowProvider)

	// Media (image/speech) always goes through Gemini; Ollama has no media models.
	mediaProvider := genai.NewGeminiProvider(cfg.Keys.GoogleGemini)

	embeddingProvider := embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)

	// 4. Object storage
	objectStore, err := storage.NewGCSStore(context.Background(), cfg.Storage.MediaBucket, cfg.Storage.CDNDomain)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize GCS store: %v", err)
	}

	// 5. Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS publisher: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	wsLogger := logger.NewIsolatedLogger("logs/study_events.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 6. In-memory session storage
	readerSessions := memory.NewReaderSessionRepository()
	examSessions := memory.NewExamSessionRepository()

	// 7. Services
	publisherService := service.NewPublisherService(cfg.Keys.EmbedNoteTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.EmbedNoteTopic,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, emailService)
	userService := service.NewUserService(uowFactory)

	noteService := service.NewNoteService(
		uowFactory,
		flowProvider,
		publisherService,
		embeddingProvider,
		natsPub,
		objectStore,
		sysLogger,
	)
	studioService := service.NewStudioService(
		uowFactory,
		flowProvider,
		mediaProvider,
		objectStore,
		natsPub,
		wsHub,
		sysLogger,
	)
	progressService := service.NewProgressService(
		uowFactory,
		readerSessions,
		natsPub,
		wsHub,
		sysLogger,
	)
	examService := service.NewExamService(uowFactory, examSessions, progressService)
	coachService := service.NewCoachService(flowProvider)

	// 8. Handlers & controllers
	studyEventsHandler := handler.NewStudyEventsHandler(wsHub, wsLogger)

	return &Container{
		AuthController:     controller.NewAuthController(authService),
		UserController:     controller.NewUserController(userService),
		NoteController:     controller.NewNoteController(noteService),
		StudioController:   controller.NewStudioController(studioService),
		ProgressController: controller.NewProgressController(progressService),
		ExamController:     controller.NewExamController(examService),
		CoachController:    controller.NewCoachController(coachService),

		ConsumerService: consumerService,

		StudyEventsHandler: studyEventsHandler,
		WebSocketHub:       wsHub,

		Logger: sysLogger,
	}
}
