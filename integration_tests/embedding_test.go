package integration_tests

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tenderdesk/ledgerhub/common"
	"github.com/tenderdesk/ledgerhub/db/models"
	"github.com/tenderdesk/ledgerhub/lib/service"
)

type EmbeddingTestSuite struct {
	TestSuite
	service         *service.LedgerService
	account         *models.Account
	embeddingServer *httptest.Server
}

func (suite *EmbeddingTestSuite) SetupSuite() {
	suite.embeddingServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"embedding": []float64{0.1, 0.2, 0.3}},
			},
		})
	}))

	svc, err := LedgerTestServiceInit()
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	svc.Config.EmbeddingsUrl = suite.embeddingServer.URL
	svc.Config.EmbeddingsTimeout = 5
	suite.service = svc

	suite.account, err = createTestAccount(svc, "Wallet", common.AccountKindOrdinary, 0)
	if err != nil {
		log.Fatalf("Error creating test account: %v", err)
	}
}

func (suite *EmbeddingTestSuite) TearDownSuite() {
	suite.embeddingServer.Close()
}

func (suite *EmbeddingTestSuite) TestEntryGetsEmbedding() {
	ctx := context.Background()

	entry, err := suite.service.CreateEntry(ctx, service.CreateEntryParams{
		AccountID:    suite.account.ID,
		Direction:    common.DirectionExpense,
		Amount:       12,
		Counterparty: "Coffee shop",
	})
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), entry.Embedding)

	// the vector arrives out of band, poll for it
	var stored *models.Entry
	for i := 0; i < 50; i++ {
		stored, err = suite.service.FindEntry(ctx, entry.ID)
		assert.NoError(suite.T(), err)
		if stored.Embedding != "" {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	assert.NotEmpty(suite.T(), stored.Embedding)

	var vector []float64
	assert.NoError(suite.T(), json.Unmarshal([]byte(stored.Embedding), &vector))
	assert.Equal(suite.T(), []float64{0.1, 0.2, 0.3}, vector)
}

func (suite *EmbeddingTestSuite) TestEmbeddingFailureDoesNotBlockEntry() {
	ctx := context.Background()

	suite.service.Config.EmbeddingsUrl = "http://127.0.0.1:1" // unroutable
	defer func() { suite.service.Config.EmbeddingsUrl = suite.embeddingServer.URL }()

	entry, err := suite.service.CreateEntry(ctx, service.CreateEntryParams{
		AccountID: suite.account.ID,
		Direction: common.DirectionExpense,
		Amount:    8,
	})
	assert.NoError(suite.T(), err)

	account, err := suite.service.FindAccount(ctx, suite.account.ID)
	assert.NoError(suite.T(), err)
	assert.NotZero(suite.T(), account.Balance)

	stored, err := suite.service.FindEntry(ctx, entry.ID)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), stored.Embedding)
}

func TestEmbeddingTestSuite(t *testing.T) {
	suite.Run(t, new(EmbeddingTestSuite))
}
