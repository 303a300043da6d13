package subscriber

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nandanugg/geotoll/module/core/domain"
)

const topicPattern = "/fleet/vehicle/+/location"

type trackingService interface {
	ProcessLocationUpdate(ctx context.Context, upd *domain.LocationUpdate) (*domain.TrackingResult, error)
}

type locationMessage struct {
	DeviceID  string   `json:"device_id"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Speed     *float64 `json:"speed,omitempty"`
}

type LocationSubscriber struct {
	client      mqtt.Client
	trackingSvc trackingService
	log         *slog.Logger
}

func NewLocationSubscriber(client mqtt.Client, trackingSvc trackingService) *LocationSubscriber {
	return &LocationSubscriber{
		client:      client,
		trackingSvc: trackingSvc,
		log:         slog.Default().With("component", "mqtt"),
	}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) Stop() error {
	token := s.client.Unsubscribe(topicPattern)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.logger().Warn("invalid location message", "topic", msg.Topic(), "error", err)
		return
	}
	if raw.DeviceID == "" {
		raw.DeviceID = deviceFromTopic(msg.Topic())
	}
	if raw.Latitude == nil || raw.Longitude == nil {
		s.logger().Warn("rejected location message", "topic", msg.Topic(),
			"error", domain.Validation("latitude and longitude: required"))
		return
	}

	upd := &domain.LocationUpdate{
		DeviceID:  raw.DeviceID,
		Latitude:  *raw.Latitude,
		Longitude: *raw.Longitude,
		Speed:     raw.Speed,
	}
	if err := upd.Validate(); err != nil {
		s.logger().Warn("rejected location message", "topic", msg.Topic(), "error", err)
		return
	}

	res, err := s.trackingSvc.ProcessLocationUpdate(context.Background(), upd)
	if err != nil {
		s.logger().Error("process location update",
			"device_id", upd.DeviceID, "kind", domain.KindOf(err), "error", err)
		return
	}

	if len(res.Alerts) > 0 {
		s.logger().Info("zone alerts",
			"vehicle_id", res.Vehicle.ID, "zones", len(res.TriggeredZones), "alerts", len(res.Alerts))
	}
}

func (s *LocationSubscriber) logger() *slog.Logger {
	if s.log == nil {
		return slog.Default()
	}
	return s.log
}

// deviceFromTopic extracts <id> from /fleet/vehicle/<id>/location.
func deviceFromTopic(topic string) string {
	parts := strings.Split(strings.Trim(topic, "/"), "/")
	if len(parts) != 4 || parts[0] != "fleet" || parts[1] != "vehicle" || parts[3] != "location" {
		return ""
	}
	return parts[2]
}
