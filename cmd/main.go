package main

import (
	"context"
	"log"

	"ticketing-service/config"
	categoryhandler "ticketing-service/internal/module/category/handler"
	categoryrepositories "ticketing-service/internal/module/category/repositories"
	categoryusecases "ticketing-service/internal/module/category/usecases"
	eventhandler "ticketing-service/internal/module/event/handler"
	eventrepositories "ticketing-service/internal/module/event/repositories"
	eventusecases "ticketing-service/internal/module/event/usecases"
	tickethandler "ticketing-service/internal/module/ticket/handler"
	ticketrepositories "ticketing-service/internal/module/ticket/repositories"
	ticketusecases "ticketing-service/internal/module/ticket/usecases"
	"ticketing-service/internal/pkg/database"
	"ticketing-service/internal/pkg/http"
	"ticketing-service/internal/pkg/httpclient"
	log_internal "ticketing-service/internal/pkg/log"
	"ticketing-service/internal/pkg/messagestream"
	"ticketing-service/internal/pkg/middleware"
	"ticketing-service/internal/pkg/redis"
	"ticketing-service/internal/pkg/scheduler"
	router "ticketing-service/internal/route"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-playground/validator/v10"
	"github.com/go-redsync/redsync/v4"
	goredis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
)

func main() {
	cfg := config.InitConfig()

	app, messageRouters := initService(cfg)

	for _, r := range messageRouters {
		ctx := context.Background()
		go func(r *message.Router) {
			if err := r.Run(ctx); err != nil {
				log.Fatal(err)
			}
		}(r)
	}

	// start http server
	http.StartHttpServer(app, cfg.HttpServer.Port)
}

func initService(cfg *config.Config) (*fiber.App, []*message.Router) {

	// init database
	db := database.GetConnection(&cfg.Database)
	// init redis
	redisClient := redis.SetupClient(&cfg.Redis)
	// init logger
	logZap := log_internal.SetupLogger()
	log_internal.Init(logZap)
	logger := log_internal.GetLogger()
	// init http client
	cb := httpclient.InitCircuitBreaker(&cfg.HttpClient, cfg.HttpClient.Type)
	httpClient := httpclient.InitHttpClient(&cfg.HttpClient, cb)
	// init distributed lock
	rs := redsync.New(goredis.NewPool(redisClient))

	ctx := context.Background()
	// init message stream
	amqp := messagestream.NewAmqp(&cfg.MessageStream)

	subscriber, err := amqp.NewSubscriber()
	if err != nil {
		logger.Error(ctx, "Failed to create subscriber", err)
	}

	publisher, err := amqp.NewPublisher()
	if err != nil {
		logger.Error(ctx, "Failed to create publisher", err)
	}

	// init scheduler
	sched := scheduler.Scheduler{Log: logger}
	asynqClient := sched.InitClient(&cfg.Redis)
	asynqInspector := sched.InitInspector(&cfg.Redis)

	validate := validator.New()

	categoryRepo := categoryrepositories.New(db, logger)
	categoryUsecase := categoryusecases.New(categoryRepo, logger)
	categoryHandler := categoryhandler.CategoryHandler{
		Log:       logZap,
		Validator: validate,
		Usecase:   categoryUsecase,
	}

	eventRepo := eventrepositories.New(db, logger, httpClient, redisClient, asynqClient, asynqInspector, &cfg.BlobStorage)
	eventUsecase := eventusecases.New(eventRepo, logger)
	eventHandler := eventhandler.EventHandler{
		Log:       logZap,
		Validator: validate,
		Usecase:   eventUsecase,
	}

	ticketRepo := ticketrepositories.New(db, logger, httpClient, redisClient, rs,
		&cfg.UserService, &cfg.PaymentGateway, &cfg.Notification)
	ticketUsecase := ticketusecases.New(ticketRepo, logger, publisher, &cfg.Ticketing)
	ticketHandler := tickethandler.TicketHandler{
		Log:       logZap,
		Validator: validate,
		Usecase:   ticketUsecase,
		Publish:   publisher,
	}

	m := middleware.Middleware{
		Log:  logZap,
		Repo: ticketRepo,
	}

	var messageRouters []*message.Router

	registrationConfirmedRouter, err := messagestream.NewRouter(publisher, "registration_confirmed_poisoned", "registration_confirmed_handler", "registration_confirmed", subscriber, ticketHandler.ConsumeRegistrationConfirmed)
	if err != nil {
		logger.Error(ctx, "Failed to create registration_confirmed router", err)
	}

	messageRouters = append(messageRouters, registrationConfirmedRouter)

	// scheduler handlers and dashboard
	go sched.StartHandler(&cfg.Redis,
		[]string{scheduler.TypeSetEventCompleted},
		[]func(ctx context.Context, t *asynq.Task) error{eventHandler.SetEventCompleted})
	go sched.StartMonitoring(&cfg.Redis)

	serverHttp := http.SetupHttpEngine()

	r := router.Initialize(serverHttp, &eventHandler, &categoryHandler, &ticketHandler, &m)

	return r, messageRouters

}
