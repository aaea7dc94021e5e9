package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/linguatrust/translation-orders/internal/app"
	"github.com/linguatrust/translation-orders/internal/client"
	"github.com/linguatrust/translation-orders/internal/config"
	"github.com/linguatrust/translation-orders/internal/entities"
	"github.com/linguatrust/translation-orders/internal/events"
	"github.com/linguatrust/translation-orders/internal/handler"
	"github.com/linguatrust/translation-orders/internal/migrations"
	"github.com/linguatrust/translation-orders/internal/postgres"
	"github.com/linguatrust/translation-orders/internal/pricing"
	"github.com/linguatrust/translation-orders/internal/repo"
	"github.com/linguatrust/translation-orders/internal/security"
	"github.com/linguatrust/translation-orders/internal/service"
	"github.com/linguatrust/translation-orders/pkg/cache"
	"github.com/linguatrust/translation-orders/pkg/trm"

	"github.com/joho/godotenv"
)

func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	panicIfErr("failed to run migrations", migrations.Up(db.DB))

	orderRepo := repo.NewOrders(db)
	tokenRepo := repo.NewTokens(db)
	certRepo := repo.NewCertifications(db)
	discountRepo := repo.NewDiscounts(db)

	txManager := trm.NewManager(db)
	certCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)
	signer := security.NewIntegritySigner(conf.Certification.SigningKey)
	intake := client.NewIntake(conf.Intake.BaseURL, conf.Intake.Timeout)
	calc := pricing.NewCalculator(newPricingConfig(conf.Pricing))

	producer := events.NewProducer(conf.Kafka.Brokers, conf.Kafka.NotificationsTopic, conf.Kafka.BatchTimeout)
	defer producer.Close()

	certService := service.NewCertificationService(logger, certRepo, orderRepo, signer, certCache, producer, service.Certifier{
		Name:        conf.Certification.CertifierName,
		Credentials: conf.Certification.CertifierCredentials,
	})
	orderService := service.NewOrderService(logger, txManager, orderRepo, discountRepo, intake, calc, certService, producer)
	assignmentService := service.NewAssignmentService(logger, tokenRepo, orderRepo, producer)

	kafkaHandler := handler.NewKafkaHandler(logger, conf.Kafka, orderService)
	httpHandler := handler.NewHTTPHandler(logger, orderService, assignmentService, certService)
	handler.RegisterMetrics()

	app := app.New(logger, conf)

	app.SetHttpHandlers(httpHandler)
	app.SetKafkaHandlers(kafkaHandler)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	certCache.StartJanitor(ctx)

	app.Start(ctx)
	<-ctx.Done()
	app.Stop()
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func newPricingConfig(p config.Pricing) pricing.Config {
	return pricing.Config{
		PageRates: map[entities.ServiceType]int64{
			entities.ServiceStandard:     p.StandardPageRate,
			entities.ServiceCertified:    p.CertifiedPageRate,
			entities.ServiceSworn:        p.SwornPageRate,
			entities.ServiceRMVCertified: p.RMVPageRate,
		},
		UrgencyPercent: map[entities.Urgency]int64{
			entities.UrgencyStandard: 0,
			entities.UrgencyPriority: p.PrioritySurchargePct,
			entities.UrgencyUrgent:   p.UrgentSurchargePct,
		},
		CertificationFee: p.CertificationFee,
		ShippingFee:      p.ShippingFee,
		Languages:        p.Languages,
		SwornTarget:      p.SwornTarget,
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
