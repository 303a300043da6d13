package core

import (
	"database/sql"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"

	handler "github.com/nandanugg/geotoll/module/core/internal/handler/http"
	"github.com/nandanugg/geotoll/module/core/internal/handler/subscriber"
	"github.com/nandanugg/geotoll/module/core/internal/repository/database/postgres"
	lockredis "github.com/nandanugg/geotoll/module/core/internal/repository/lock/redis"
	"github.com/nandanugg/geotoll/module/core/internal/repository/publisher/rabbitmq"
	"github.com/nandanugg/geotoll/module/core/service"
)

type Options struct {
	DedupWindow  time.Duration
	StoreTimeout time.Duration
}

type Module struct {
	TrackingSvc *service.TrackingService
	WalletSvc   *service.WalletService
	ZoneSvc     *service.ZoneService
	LedgerSvc   *service.LedgerService
	AccountSvc  *service.AccountService

	trackingHandler *handler.TrackingHandler
	walletHandler   *handler.WalletHandler
	zoneHandler     *handler.ZoneHandler
	ledgerHandler   *handler.LedgerHandler
	accountHandler  *handler.AccountHandler
	subscriber      *subscriber.LocationSubscriber
}

func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, redisClient *goredis.Client, opts Options) (*Module, error) {
	vehicleRepo := postgres.NewVehicleRepo(db)
	zoneRepo := postgres.NewZoneRepo(db)
	accountRepo := postgres.NewAccountRepo(db)
	ledgerRepo := postgres.NewSettlementRepo(db)
	guard := lockredis.NewTollGuard(redisClient)

	alertPub, err := rabbitmq.NewAlertPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("alert publisher: %w", err)
	}

	trackingSvc := service.NewTrackingService(vehicleRepo, zoneRepo, accountRepo, ledgerRepo, guard, alertPub, service.TrackingConfig{
		DedupWindow:  opts.DedupWindow,
		StoreTimeout: opts.StoreTimeout,
	})
	walletSvc := service.NewWalletService(accountRepo, ledgerRepo, opts.StoreTimeout)
	zoneSvc := service.NewZoneService(zoneRepo, opts.StoreTimeout)
	ledgerSvc := service.NewLedgerService(ledgerRepo, opts.StoreTimeout)
	accountSvc := service.NewAccountService(accountRepo, opts.StoreTimeout)

	return &Module{
		TrackingSvc: trackingSvc,
		WalletSvc:   walletSvc,
		ZoneSvc:     zoneSvc,
		LedgerSvc:   ledgerSvc,
		AccountSvc:  accountSvc,

		trackingHandler: handler.NewTrackingHandler(trackingSvc, ledgerSvc),
		walletHandler:   handler.NewWalletHandler(walletSvc),
		zoneHandler:     handler.NewZoneHandler(zoneSvc),
		ledgerHandler:   handler.NewLedgerHandler(ledgerSvc),
		accountHandler:  handler.NewAccountHandler(accountSvc),
		subscriber:      subscriber.NewLocationSubscriber(mqttClient, trackingSvc),
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.trackingHandler.Register(r)
	m.walletHandler.Register(r)
	m.zoneHandler.Register(r)
	m.ledgerHandler.Register(r)
	m.accountHandler.Register(r)
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}

func (m *Module) StopSubscribers() error {
	return m.subscriber.Stop()
}
