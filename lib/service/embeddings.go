package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/getsentry/sentry-go"
	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/tenderdesk/ledgerhub/lib/ledger"
)

const embeddingMaxRetries = 3

type embeddingRequest struct {
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// GenerateEntryEmbedding asks the configured embeddings endpoint for a
// vector describing the entry and stores it back onto the row. It runs
// detached from the request that created the entry: it brings its own
// context, and any failure is logged and swallowed so the enrichment can
// never affect the primary operation's latency or outcome.
func (svc *LedgerService) GenerateEntryEmbedding(entry *models.Entry, categoryName string) {
	if svc.Config.EmbeddingsUrl == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(svc.Config.EmbeddingsTimeout)*time.Second)
	defer cancel()

	vector, err := svc.fetchEmbedding(ctx, entrySummary(entry, categoryName))
	if err != nil {
		sentry.CaptureException(err)
		svc.Logger.Errorf("Embedding generation failed for entry_id:%v error: %v", entry.ID, err)
		return
	}

	encoded, err := json.Marshal(vector)
	if err != nil {
		svc.Logger.Errorf("Embedding encoding failed for entry_id:%v error: %v", entry.ID, err)
		return
	}
	_, err = svc.DB.NewUpdate().Model((*models.Entry)(nil)).
		Set("embedding = ?", string(encoded)).
		Where("id = ?", entry.ID).
		Exec(ctx)
	if err != nil {
		svc.Logger.Errorf("Embedding save failed for entry_id:%v error: %v", entry.ID, err)
	}
}

func (svc *LedgerService) fetchEmbedding(ctx context.Context, summary string) ([]float64, error) {
	payload, err := json.Marshal(embeddingRequest{Input: summary})
	if err != nil {
		return nil, err
	}

	var vector []float64
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.Config.EmbeddingsUrl, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if svc.Config.EmbeddingsApiKey != "" {
			req.Header.Set("Authorization", "Bearer "+svc.Config.EmbeddingsApiKey)
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("embeddings endpoint returned status %d", resp.StatusCode)
		}

		var decoded embeddingResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return err
		}
		if len(decoded.Data) == 0 {
			return backoff.Permanent(fmt.Errorf("embeddings endpoint returned no data"))
		}
		vector = decoded.Data[0].Embedding
		return nil
	}

	err = backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), embeddingMaxRetries), ctx))
	if err != nil {
		return nil, err
	}
	return vector, nil
}

// entrySummary renders the free-text description sent to the embeddings
// endpoint.
func entrySummary(entry *models.Entry, categoryName string) string {
	parts := []string{
		entry.Direction,
		fmt.Sprintf("%.2f %s", ledger.MajorUnits(entry.Amount), entry.Currency),
	}
	if categoryName != "" {
		parts = append(parts, categoryName)
	}
	if entry.Counterparty != "" {
		parts = append(parts, entry.Counterparty)
	}
	if entry.Note != "" {
		parts = append(parts, entry.Note)
	}
	return strings.Join(parts, " ")
}
