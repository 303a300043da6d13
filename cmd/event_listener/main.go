package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nandanugg/geotoll/config"
	"github.com/nandanugg/geotoll/module/core/domain"
)

const (
	exchangeName = "fleet.events"
	queueName    = "zone_alerts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	config.SetupLogging(cfg.LogLevel, cfg.LogFormat)

	conn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		fatal("rabbitmq", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		fatal("rabbitmq channel", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		fatal("declare exchange", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		fatal("declare queue", err)
	}

	if err := ch.QueueBind(queueName, "", exchangeName, false, nil); err != nil {
		fatal("bind queue", err)
	}

	msgs, err := ch.Consume(queueName, "", true, false, false, false, nil)
	if err != nil {
		fatal("consume", err)
	}

	slog.Info("waiting for zone alerts", "queue", queueName)

	go func() {
		for msg := range msgs {
			var event domain.ZoneAlertEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				slog.Warn("malformed event", "error", err)
				continue
			}
			for _, a := range event.Alerts {
				attrs := []any{
					"vehicle_id", event.VehicleID,
					"registration_no", event.RegistrationNo,
					"zone", a.Zone,
					"message", a.Message,
				}
				switch a.Type {
				case domain.ZoneToll:
					attrs = append(attrs, "status", a.Status)
					if a.Amount != nil {
						attrs = append(attrs, "amount", a.Amount.Major())
					}
					if a.Balance != nil {
						attrs = append(attrs, "balance", a.Balance.Major())
					}
				case domain.ZoneDanger:
					attrs = append(attrs, "severity", a.Severity, "speeding", a.Speeding)
				}
				slog.Info(string(a.Type)+" alert", attrs...)
			}
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	slog.Info("shutting down")
}

func fatal(what string, err error) {
	slog.Error(what, "error", err)
	os.Exit(1)
}
