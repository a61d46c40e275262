package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ledger-api/internal/api/routes"
	"ledger-api/internal/engine"
	"ledger-api/internal/infrastructure/events"
	"ledger-api/internal/infrastructure/messaging"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testContainer struct {
	engine    *engine.Engine
	broker    *events.Broker
	publisher messaging.EventPublisher
}

func (c *testContainer) GetEngine() *engine.Engine                   { return c.engine }
func (c *testContainer) GetEventBroker() *events.Broker              { return c.broker }
func (c *testContainer) GetEventPublisher() messaging.EventPublisher { return c.publisher }

func newTestServer(t *testing.T) (*gin.Engine, *testContainer, *messaging.EventCapture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	capture := messaging.NewEventCapture()
	container := &testContainer{
		engine:    engine.New(),
		broker:    events.NewBroker(),
		publisher: capture,
	}

	router := gin.New()
	routes.RegisterRoutes(router, container)
	return router, container, capture
}

func postTransaction(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPostDeposit(t *testing.T) {
	router, _, capture := newTestServer(t)

	w := postTransaction(t, router, `{"type":"deposit","client":1,"tx":1,"amount":"100.00"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var snap map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, float64(1), snap["client"])
	assert.Equal(t, "100", snap["available"])
	assert.Equal(t, false, snap["locked"])

	require.Len(t, capture.Accepted(), 1)
	assert.Equal(t, "deposit", capture.Accepted()[0].Type)
}

func TestPostDepositMissingAmount(t *testing.T) {
	router, _, capture := newTestServer(t)

	w := postTransaction(t, router, `{"type":"deposit","client":1,"tx":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_AMOUNT")

	require.Len(t, capture.Rejected(), 1)
	assert.Equal(t, "MISSING_AMOUNT", capture.Rejected()[0].Code)
}

func TestPostDuplicateTransaction(t *testing.T) {
	router, _, _ := newTestServer(t)

	w := postTransaction(t, router, `{"type":"deposit","client":1,"tx":1,"amount":"100"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postTransaction(t, router, `{"type":"deposit","client":1,"tx":1,"amount":"100"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "DUPLICATE_TRANSACTION")
}

func TestPostWithdrawalInsufficientFunds(t *testing.T) {
	router, _, capture := newTestServer(t)

	postTransaction(t, router, `{"type":"deposit","client":1,"tx":1,"amount":"50"}`)
	w := postTransaction(t, router, `{"type":"withdrawal","client":1,"tx":2,"amount":"80"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_FUNDS")
	require.Len(t, capture.Rejected(), 1)
}

func TestPostChargebackLifecycle(t *testing.T) {
	router, container, capture := newTestServer(t)

	require.Equal(t, http.StatusCreated, postTransaction(t, router, `{"type":"deposit","client":1,"tx":1,"amount":"100"}`).Code)
	require.Equal(t, http.StatusCreated, postTransaction(t, router, `{"type":"dispute","client":1,"tx":1}`).Code)
	require.Equal(t, http.StatusCreated, postTransaction(t, router, `{"type":"chargeback","client":1,"tx":1}`).Code)

	snap, ok := container.engine.GetAccount(1)
	require.True(t, ok)
	assert.True(t, snap.Locked)

	require.Len(t, capture.Locked(), 1)

	// The frozen account rejects further events with 423.
	w := postTransaction(t, router, `{"type":"deposit","client":1,"tx":2,"amount":"10"}`)
	assert.Equal(t, http.StatusLocked, w.Code)
	assert.Contains(t, w.Body.String(), "ACCOUNT_LOCKED")
}

func TestPostUnknownType(t *testing.T) {
	router, _, _ := newTestServer(t)

	w := postTransaction(t, router, `{"type":"transfer","client":1,"tx":1,"amount":"10"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAccount(t *testing.T) {
	router, _, _ := newTestServer(t)

	postTransaction(t, router, `{"type":"deposit","client":7,"tx":1,"amount":"12.3456789"}`)

	req := httptest.NewRequest(http.MethodGet, "/accounts/7", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var snap map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, "12.3457", snap["available"])
}

func TestGetAccountNotFound(t *testing.T) {
	router, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/accounts/99", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAccounts(t *testing.T) {
	router, _, _ := newTestServer(t)

	postTransaction(t, router, `{"type":"deposit","client":1,"tx":1,"amount":"10"}`)
	postTransaction(t, router, `{"type":"deposit","client":2,"tx":2,"amount":"20"}`)

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var snaps []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snaps))
	assert.Len(t, snaps, 2)
}
