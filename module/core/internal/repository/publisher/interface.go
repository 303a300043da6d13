package publisher

import (
	"context"

	"github.com/nandanugg/geotoll/module/core/domain"
)

type AlertPublisher interface {
	PublishZoneAlerts(ctx context.Context, event *domain.ZoneAlertEvent) error
}
