package consumer

import (
	"context"
	"encoding/json"

	"brokmang/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ReportInvalidator is implemented by the report cache. A won deal changes the
// revenue of every scope above its agent, so the whole org's cached results go.
type ReportInvalidator interface {
	InvalidateOrg(ctx context.Context, orgID string) error
}

func ConsumeDealLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	invalidator ReportInvalidator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.deal_lifecycle")
	log.Info("deal lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("deal lifecycle consumer stopped")
				return
			}
			log.Error("fetch deal lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.DealLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode deal lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.EventType != events.DealWonType {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := invalidator.InvalidateOrg(ctx, event.OrgID); err != nil {
			log.Error("invalidate cached reports failed",
				zap.String("deal_id", event.DealID),
				zap.String("org_id", event.OrgID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit deal lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("cached reports invalidated for won deal",
			zap.String("deal_id", event.DealID),
			zap.String("org_id", event.OrgID),
		)
	}
}
