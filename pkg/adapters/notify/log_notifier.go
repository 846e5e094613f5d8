// Package notify dispatches onboarding notifications. Mail delivery lives elsewhere; this
// adapter records the dispatch so downstream workers can pick it up from the logs.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/linkfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkfolio/pkg/ports"
)

type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With(zap.String("component", "notify"))}
}

func (n *LogNotifier) Welcome(_ context.Context, profile *domain.Profile) error {
	n.logger.Info("welcome message dispatched",
		zap.Int64("profile_id", profile.ID),
		zap.String("email", profile.Email),
		zap.String("display_name", profile.DisplayName()),
	)
	return nil
}

var _ ports.Notifier = (*LogNotifier)(nil)
