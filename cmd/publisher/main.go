package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type locationMessage struct {
	DeviceID  string  `json:"device_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Speed     float64 `json:"speed"`
}

// Sample sites seeded by migrations/001_init.sql.
var (
	tollPlaza  = [2]float64{76.2673, 9.9312}
	sharpCurve = [2]float64{77.0615, 10.0915}
)

type simulator struct {
	rng        *rand.Rand
	devices    []string
	tollRatio  float64
	curveRatio float64
}

// next picks a device and places it near the toll plaza, near the curve, or
// somewhere in Kerala, according to the configured ratios.
func (s *simulator) next() locationMessage {
	msg := locationMessage{
		DeviceID: s.devices[s.rng.Intn(len(s.devices))],
		Speed:    float64(s.rng.Intn(90)),
	}

	roll := s.rng.Float64()
	switch {
	case roll < s.tollRatio:
		msg.Longitude, msg.Latitude = jitter(s.rng, tollPlaza, 0.0008)
	case roll < s.tollRatio+s.curveRatio:
		msg.Longitude, msg.Latitude = jitter(s.rng, sharpCurve, 0.0015)
	default:
		msg.Longitude = 74.9 + s.rng.Float64()*2.5
		msg.Latitude = 8.2 + s.rng.Float64()*4.5
	}
	return msg
}

// jitter moves center by at most half of span degrees on each axis.
func jitter(rng *rand.Rand, center [2]float64, span float64) (float64, float64) {
	return center[0] + (rng.Float64()-0.5)*span, center[1] + (rng.Float64()-0.5)*span
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("load .env", "error", err)
	}
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd resolves every flag through v, so a flag given on the command
// line wins over its environment variable, which wins over the default.
func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publisher <interval_seconds>",
		Short: "Publish simulated device locations over MQTT",
		Long: `Publishes location reports for a pool of devices to
/fleet/vehicle/<device_id>/location. A share of the reports lands inside
the sample toll plaza and the sample danger zone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(v, args)
		},
	}

	cmd.Flags().String("broker", "tcp://localhost:1883", "MQTT broker URL (env MQTT_BROKER)")
	cmd.Flags().StringSlice("devices", []string{"GPS-001", "GPS-002", "GPS-003"}, "Device ids to simulate")
	cmd.Flags().Float64("toll-ratio", 0.3, "Share of reports inside the toll plaza")
	cmd.Flags().Float64("curve-ratio", 0.2, "Share of reports inside the danger zone")
	cmd.Flags().Int("count", 0, "Stop after this many reports (0 runs forever)")

	_ = v.BindPFlags(cmd.Flags())
	_ = v.BindEnv("broker", "MQTT_BROKER")
	return cmd
}

func run(v *viper.Viper, args []string) error {
	intervalSec, err := strconv.Atoi(args[0])
	if err != nil || intervalSec <= 0 {
		return fmt.Errorf("interval must be a positive integer")
	}

	broker := v.GetString("broker")
	devices := v.GetStringSlice("devices")
	tollRatio := v.GetFloat64("toll-ratio")
	curveRatio := v.GetFloat64("curve-ratio")
	count := v.GetInt("count")

	if len(devices) == 0 {
		return fmt.Errorf("at least one device is required")
	}
	if tollRatio < 0 || curveRatio < 0 || tollRatio+curveRatio > 1 {
		return fmt.Errorf("ratios must be non-negative and sum to at most 1")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("geotoll-mock-publisher")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	defer client.Disconnect(250)

	sim := &simulator{
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		devices:    devices,
		tollRatio:  tollRatio,
		curveRatio: curveRatio,
	}

	slog.Info("publishing", "broker", broker, "interval_seconds", intervalSec, "devices", strings.Join(devices, ","))

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for sent := 0; count == 0 || sent < count; sent++ {
		<-ticker.C
		msg := sim.next()

		payload, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		topic := fmt.Sprintf("/fleet/vehicle/%s/location", msg.DeviceID)

		token := client.Publish(topic, 1, false, payload)
		token.Wait()
		if err := token.Error(); err != nil {
			slog.Warn("publish", "topic", topic, "error", err)
			continue
		}

		slog.Info("published", "topic", topic, "payload", string(payload))
	}
	return nil
}
