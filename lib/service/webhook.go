package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/tenderdesk/ledgerhub/common"
	"github.com/tenderdesk/ledgerhub/db/models"
)

func (svc *LedgerService) StartWebhookSubscription(ctx context.Context) {

	svc.Logger.Infof("Starting webhook subscription with webhook url %s", svc.Config.WebhookUrl)
	createdEntries := make(chan models.Entry)
	deletedEntries := make(chan models.Entry)
	svc.EntryPubSub.Subscribe(common.EntryEventCreated, createdEntries)
	svc.EntryPubSub.Subscribe(common.EntryEventDeleted, deletedEntries)
	for {
		select {
		case <-ctx.Done():
			return
		case created := <-createdEntries:
			svc.postToWebhook(created, common.EntryEventCreated)
		case deleted := <-deletedEntries:
			svc.postToWebhook(deleted, common.EntryEventDeleted)
		}
	}
}

type webhookPayload struct {
	Event string       `json:"event"`
	Entry models.Entry `json:"entry"`
}

func (svc *LedgerService) postToWebhook(entry models.Entry, event string) {

	payload := new(bytes.Buffer)
	err := json.NewEncoder(payload).Encode(webhookPayload{Event: event, Entry: entry})
	if err != nil {
		svc.Logger.Error(err)
		return
	}

	resp, err := http.Post(svc.Config.WebhookUrl, "application/json", payload)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			svc.Logger.Error(err)
		}
		svc.Logger.Errorf("Webhook status code was %d, body: %s", resp.StatusCode, msg)
	}
}
