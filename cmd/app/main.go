package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"dispatch/cmd"
	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/postgres/notificationrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/riderrepo"
	"dispatch/internal/adapters/out/postgres/verificationrepo"
	"dispatch/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := connectDB(configs)

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Failed to build composition root: %v", err)
	}

	jobManager := jobs.NewJobManager(
		app.CreateExpireVerificationsCommandHandler(),
		app.CreatePurgeNotificationsCommandHandler(),
		app.NotificationRetention(),
		logger,
	)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		KafkaHost:              goDotEnvVariable("KAFKA_HOST"),
		KafkaOrderStatusTopic:  goDotEnvVariable("KAFKA_ORDER_STATUS_TOPIC"),
		KafkaVerificationTopic: goDotEnvVariable("KAFKA_VERIFICATION_TOPIC"),

		TwilioAccountSID: goDotEnvVariable("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  goDotEnvVariable("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: goDotEnvVariable("TWILIO_FROM_NUMBER"),
		SMSDryRun:        goDotEnvVariable("SMS_DRY_RUN"),

		EditConflictPolicy:        goDotEnvVariable("EDIT_CONFLICT_POLICY"),
		NotificationRetentionDays: goDotEnvVariable("NOTIFICATION_RETENTION_DAYS"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func connectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword,
		configs.DBName, configs.DBSslMode,
	)

	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&riderrepo.RiderDTO{},
		&verificationrepo.RequestDTO{},
		&notificationrepo.NotificationDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	proposeHandler, err := app.CreateProposeOrderEditCommandHandler()
	if err != nil {
		log.Fatalf("Failed to create propose handler: %v", err)
	}

	server := httpadapter.NewServer(
		app.CreateAdvanceOrderStatusCommandHandler(),
		app.CreateAssignOrderCommandHandler(),
		proposeHandler,
		app.CreateDecideVerificationCommandHandler(nil),
		app.CreateUpdateRiderLocationCommandHandler(),
		app.CreateMarkNotificationReadCommandHandler(),
		app.CreateRequestOTPCommandHandler(),
		app.CreateVerifyOTPCommandHandler(),
		app.CreateGetNearestRidersQueryHandler(),
		app.CreateGetPendingVerificationsQueryHandler(),
	)

	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	server.RegisterRoutes(e)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		_ = e.Close()
	}()

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
