package main

import (
	"context"
	"log"
	"medbook-service/internal/app/config"
	"medbook-service/internal/app/delivery/http/controllers"
	"medbook-service/internal/app/delivery/http/middlewares"
	"medbook-service/internal/app/delivery/http/routers"
	"medbook-service/internal/app/drivers/database"
	"medbook-service/internal/app/drivers/logger"
	"medbook-service/internal/app/drivers/messaging"
	"medbook-service/internal/app/services/core/auth"
	"medbook-service/internal/app/services/core/payments"
	"medbook-service/internal/app/services/core/prescriptions"
	"medbook-service/internal/app/services/core/reservations"
	"medbook-service/internal/app/services/core/resources"
	"medbook-service/internal/app/services/core/session"
	"medbook-service/internal/app/services/core/slots"
	"medbook-service/internal/app/services/core/users"
	"medbook-service/internal/app/services/shared/events"
	"medbook-service/internal/app/services/shared/gateway"
	"medbook-service/internal/app/services/shared/locker"
	"medbook-service/internal/app/services/shared/redis"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	startupLog := logger.NewLogrusLogger(internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		startupLog.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	mongoClient := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQConnection := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		MongoClient:    mongoClient,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQConnection,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	bootstrapingTheApp(bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			startupLog.Fatalf("Server failed to start: %v", err)
		}
	}()
	startupLog.Infof("Server listening on %s", internalConfig.App.Port)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	startupLog.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		startupLog.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		startupLog.Fatalf("Error closing application resources: %v", err)
	}

	startupLog.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap config.Bootstrap) {
	dbName := bootstrap.DriverConfig.MongoDB.DbName

	// Shared
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, bootstrap.Logger)
	sessionService := session.NewSessionService(redisRepository, bootstrap.InternalConfig.JWT.ExpTimeInHour, bootstrap.Logger)
	paymentGateway := gateway.NewRazorpayService(bootstrap.InternalConfig, bootstrap.Logger)
	eventPublisher, err := events.NewRabbitMQPublisher(bootstrap.RabbitMQ, bootstrap.InternalConfig.App.RabbitMQEventExchange, bootstrap.Logger)
	if err != nil {
		log.Fatalf("Failed to set up event publisher: %v", err)
	}

	// Middlewares
	middlewares := middlewares.NewMiddlewares(sessionService, bootstrap.InternalConfig, bootstrap.Logger)

	// Slot ledger
	slotLedger := slots.NewSlotLedgerMongo(bootstrap.MongoClient, dbName, bootstrap.Logger)
	if ledger, ok := slotLedger.(*slots.SlotLedgerMongo); ok {
		indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ledger.EnsureIndexes(indexCtx); err != nil {
			log.Fatalf("Failed to ensure slot ledger indexes: %v", err)
		}
	}

	// Catalog
	resourceMongoRepository := resources.NewResourceMongoRepository(bootstrap.MongoClient, dbName)
	resourceUsecase := resources.NewResourceUsecase(resourceMongoRepository, slotLedger, bootstrap.Logger)
	resourceController := controllers.NewResourceController(bootstrap.Logger, resourceUsecase)

	// Users and auth
	userMongoRepository := users.NewUserMongoRepository(bootstrap.MongoClient, dbName)
	userUsecase := users.NewUserUsecase(userMongoRepository, bootstrap.Logger)
	userController := controllers.NewUserController(bootstrap.Logger, userUsecase)
	authUsecase := auth.NewAuthUsecase(userMongoRepository, resourceMongoRepository, sessionService, bootstrap.InternalConfig, bootstrap.Logger)
	authController := controllers.NewAuthController(bootstrap.Logger, authUsecase)

	// Reservations
	reservationMongoRepository := reservations.NewReservationMongoRepository(bootstrap.MongoClient, dbName)
	reservationUsecase := reservations.NewReservationUsecase(reservationMongoRepository, resourceMongoRepository, slotLedger, bootstrap.Logger)
	reservationController := controllers.NewReservationController(bootstrap.Logger, reservationUsecase)

	// Payments
	paymentUsecase := payments.NewPaymentUsecase(reservationMongoRepository, paymentGateway, eventPublisher, lockerService, bootstrap.InternalConfig, bootstrap.Logger)
	paymentController := controllers.NewPaymentController(bootstrap.Logger, paymentUsecase)
	webhookController := controllers.NewWebhookController(bootstrap.Logger, paymentUsecase)

	// Prescriptions
	prescriptionMongoRepository := prescriptions.NewPrescriptionMongoRepository(bootstrap.MongoClient, dbName)
	prescriptionUsecase := prescriptions.NewPrescriptionUsecase(prescriptionMongoRepository, reservationMongoRepository, bootstrap.Logger)
	prescriptionController := controllers.NewPrescriptionController(bootstrap.Logger, prescriptionUsecase)

	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.InternalConfig,
		middlewares,
		authController,
		userController,
		resourceController,
		reservationController,
		paymentController,
		webhookController,
		prescriptionController,
	)
}
