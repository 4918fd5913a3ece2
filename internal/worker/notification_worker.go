package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/job-portal/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to the
// dispatcher. Handlers run synchronously inside Publish.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	types := notifications.RegisterHandlers()
	logger.Info("notification handlers registered", zap.Int("event_types", len(types)))
}
