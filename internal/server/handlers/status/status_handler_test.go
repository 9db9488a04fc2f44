package status

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openmined/statusapi/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStatusStore struct {
	mock.Mock
}

func (m *MockStatusStore) List(ctx context.Context) ([]status.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]status.Record), args.Error(1)
}

func (m *MockStatusStore) Insert(ctx context.Context, value string) (int64, error) {
	args := m.Called(ctx, value)
	return args.Get(0).(int64), args.Error(1)
}

func createTestContext(method, url string, body io.Reader) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func TestStatusHandler_GetStatus(t *testing.T) {
	store := &MockStatusStore{}
	handler := New(store)

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store.On("List", mock.Anything).Return([]status.Record{
		{ID: 2, Status: "degraded", CreatedAt: created.Add(time.Minute)},
		{ID: 1, Status: "ok", CreatedAt: created},
	}, nil)

	c, w := createTestContext(http.MethodGet, "/api/v1/get-status", nil)
	handler.GetStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"id":2,"status":"degraded","created_at":"2024-05-01T10:01:00Z"},
		{"id":1,"status":"ok","created_at":"2024-05-01T10:00:00Z"}
	]`, w.Body.String())
	store.AssertExpectations(t)
}

func TestStatusHandler_GetStatus_Empty(t *testing.T) {
	store := &MockStatusStore{}
	store.On("List", mock.Anything).Return([]status.Record{}, nil)

	c, w := createTestContext(http.MethodGet, "/api/v1/get-status", nil)
	New(store).GetStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestStatusHandler_GetStatus_StoreErrorEchoesDetail(t *testing.T) {
	store := &MockStatusStore{}
	store.On("List", mock.Anything).Return(nil, &status.StoreError{
		Op:   "list",
		Kind: status.KindConnection,
		Err:  errors.New(`connection to server at "db" (10.0.0.2), port 5432 failed`),
	})

	c, w := createTestContext(http.MethodGet, "/api/v1/get-status", nil)
	New(store).GetStatus(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"connection to server at \"db\" (10.0.0.2), port 5432 failed"}`, w.Body.String())
}

func TestStatusHandler_SetStatus(t *testing.T) {
	store := &MockStatusStore{}
	store.On("Insert", mock.Anything, "all good").Return(int64(7), nil)

	c, w := createTestContext(http.MethodPost, "/api/v1/set-status", strings.NewReader(`{"status":"all good"}`))
	New(store).SetStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Record inserted successfully"}`, w.Body.String())
	store.AssertExpectations(t)
}

func TestStatusHandler_SetStatus_EmptyStringAllowed(t *testing.T) {
	store := &MockStatusStore{}
	store.On("Insert", mock.Anything, "").Return(int64(1), nil)

	c, w := createTestContext(http.MethodPost, "/api/v1/set-status", strings.NewReader(`{"status":""}`))
	New(store).SetStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestStatusHandler_SetStatus_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		detail string
	}{
		{name: "missing field", body: `{}`, detail: "field required: status"},
		{name: "null field", body: `{"status":null}`, detail: "field required: status"},
		{name: "wrong type", body: `{"status":42}`},
		{name: "malformed json", body: `{"status":`},
		{name: "empty body", body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockStatusStore{}

			c, w := createTestContext(http.MethodPost, "/api/v1/set-status", strings.NewReader(tt.body))
			New(store).SetStatus(c)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, w.Body.String(), `"detail"`)
			if tt.detail != "" {
				assert.JSONEq(t, `{"detail":"`+tt.detail+`"}`, w.Body.String())
			}
			store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestStatusHandler_SetStatus_StoreError(t *testing.T) {
	store := &MockStatusStore{}
	store.On("Insert", mock.Anything, "x").Return(int64(0), &status.StoreError{
		Op:   "insert",
		Kind: status.KindQuery,
		Err:  errors.New(`relation "service_status" does not exist`),
	})

	c, w := createTestContext(http.MethodPost, "/api/v1/set-status", strings.NewReader(`{"status":"x"}`))
	New(store).SetStatus(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"relation \"service_status\" does not exist"}`, w.Body.String())
}
