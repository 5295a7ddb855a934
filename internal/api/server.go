package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hirewire/jobboard/config"
	"github.com/hirewire/jobboard/infra/queue"
	"github.com/hirewire/jobboard/internal/api/rest/handlers"
	"github.com/hirewire/jobboard/internal/domain"
	"github.com/hirewire/jobboard/internal/notify"
	"github.com/hirewire/jobboard/internal/repository"
	"github.com/hirewire/jobboard/internal/services"
	"github.com/hirewire/jobboard/internal/session"
	"github.com/hirewire/jobboard/pkg/cloudinary"
)

func StartServer(cfg config.Config) {
	app := fiber.New()
	log.Printf("KafkaBroker=%q KafkaTopic=%q", cfg.KafkaBroker, cfg.KafkaTopic)

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION (guarded by advisory lock) ----------
	// Same lock id on every replica so only one runs the migration.
	const migrateLockID int64 = 20260830

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.PendingUser{},
		&domain.Token{},
		&domain.JobAdvert{},
		&domain.JobApplication{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	notifier := notify.NewQueueNotifier(kafkaProducer)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	sessions := session.NewRedisStore(rdb)

	cld, err := cloudinary.New()
	if err != nil {
		log.Fatalf("cloudinary init error: %v", err)
	}
	up := cloudinary.NewCloudinaryUploader(cld)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)
	pendingRepo := repository.NewPendingUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	advertRepo := repository.NewJobAdvertRepository(db)
	applicationRepo := repository.NewJobApplicationRepository(db)

	// ---------- Services ----------
	accountSvc := services.NewAccountService(userRepo, pendingRepo, tokenRepo, notifier)
	advertSvc := services.NewAdvertService(advertRepo, applicationRepo, up, notifier)

	// ---------- Handlers ----------
	accountHandler := handlers.NewAccountHandler(accountSvc, sessions)
	accountHandler.SetupRoutes(app)

	advertHandler := handlers.NewAdvertHandler(advertSvc, sessions)
	advertHandler.SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}
