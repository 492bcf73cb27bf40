package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticket-marketplace/models"
	"ticket-marketplace/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// stubOrderStore serves a single order and applies the same manual-edit guard
// as the Mongo store: a paid order is immutable through UpdateStatus.
type stubOrderStore struct {
	order *models.Order
}

func (s *stubOrderStore) Create(ctx context.Context, o *models.Order) error { return nil }

func (s *stubOrderStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, repository.ErrNotFound
	}
	return s.order, nil
}

func (s *stubOrderStore) FindByTransactionID(ctx context.Context, transactionID string) (*models.Order, error) {
	return nil, repository.ErrNotFound
}
func (s *stubOrderStore) FindByCustomer(ctx context.Context, email string) ([]models.Order, error) {
	return nil, nil
}
func (s *stubOrderStore) FindBySeller(ctx context.Context, email string) ([]models.Order, error) {
	return nil, nil
}
func (s *stubOrderStore) MarkPaid(ctx context.Context, id uuid.UUID, transactionID string) (bool, error) {
	return false, nil
}

func (s *stubOrderStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if s.order == nil || s.order.ID != id {
		return repository.ErrNotFound
	}
	if s.order.Status == models.OrderStatusPaid {
		return repository.ErrPaidImmutable
	}
	s.order.Status = status
	return nil
}

func (s *stubOrderStore) Delete(ctx context.Context, id uuid.UUID) error {
	if s.order == nil || s.order.ID != id {
		return repository.ErrNotFound
	}
	s.order = nil
	return nil
}

func orderTestRouter(store *stubOrderStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	oc := &OrderController{Orders: store, Logger: zap.NewNop()}
	r := gin.New()
	r.PATCH("/orders/:id", oc.UpdateStatus)
	r.DELETE("/orders/:id", oc.Delete)
	return r
}

func patchStatus(r *gin.Engine, id, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/orders/"+id, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateStatusPendingOrder(t *testing.T) {
	order := &models.Order{ID: uuid.New(), Status: models.OrderStatusPending}
	store := &stubOrderStore{order: order}

	w := patchStatus(orderTestRouter(store), order.ID.String(), `{"status":"paid"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
}

func TestUpdateStatusCannotRegressPaidOrder(t *testing.T) {
	now := time.Now().UTC()
	order := &models.Order{
		ID:            uuid.New(),
		Status:        models.OrderStatusPaid,
		TransactionID: "pi_1",
		PaidAt:        &now,
	}
	store := &stubOrderStore{order: order}

	w := patchStatus(orderTestRouter(store), order.ID.String(), `{"status":"pending"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, "pi_1", order.TransactionID)
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	store := &stubOrderStore{}
	w := patchStatus(orderTestRouter(store), uuid.NewString(), `{"status":"paid"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatusInvalidPayload(t *testing.T) {
	order := &models.Order{ID: uuid.New(), Status: models.OrderStatusPending}
	store := &stubOrderStore{order: order}

	w := patchStatus(orderTestRouter(store), order.ID.String(), `{"status":"shipped"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatusInvalidID(t *testing.T) {
	store := &stubOrderStore{}
	w := patchStatus(orderTestRouter(store), "not-a-uuid", `{"status":"paid"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteOrder(t *testing.T) {
	order := &models.Order{ID: uuid.New(), Status: models.OrderStatusPending}
	store := &stubOrderStore{order: order}
	r := orderTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/orders/"+order.ID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, store.order)
}
