package service

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/tenderdesk/ledgerhub/rabbitmq"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

// LedgerService orchestrates create/update/delete of entries and
// transfers so the store never contains an entry without a consistent
// balance effect. It holds no per-request state; every operation is an
// independent unit of work against the row store.
type LedgerService struct {
	Config         *Config
	DB             *bun.DB
	Logger         *lecho.Logger
	EntryPubSub    *Pubsub
	RabbitMQClient rabbitmq.Client
}

// publishEntryEvent fans an entry event out to the in-process subscribers
// and, when configured, to RabbitMQ. Event delivery is best effort and
// never fails the primary operation.
func (svc *LedgerService) publishEntryEvent(ctx context.Context, event string, entry *models.Entry) {
	if svc.EntryPubSub != nil {
		svc.EntryPubSub.Publish(event, *entry)
	}
	if svc.RabbitMQClient != nil {
		if err := svc.RabbitMQClient.PublishEntryEvent(ctx, event, entry); err != nil {
			sentry.CaptureException(err)
			svc.Logger.Errorf("Failed to publish %s event for entry_id:%v error: %v", event, entry.ID, err)
		}
	}
}
