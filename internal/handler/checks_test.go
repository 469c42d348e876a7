package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dm9/collections-engine/internal/domain"
)

func TestRunChecks(t *testing.T) {
	t.Run("run survives a client disconnect", func(t *testing.T) {
		f := newHandlerFixture()

		// The evaluators must see a live context even when the request's
		// context is already canceled.
		liveContext := mock.MatchedBy(func(ctx context.Context) bool {
			return ctx.Err() == nil
		})
		f.locker.On("TryAcquire", liveContext, mock.Anything).Return(true, nil)
		f.locker.On("Release", mock.Anything).Return(nil)
		f.ptpRepo.On("ListActiveByPromisedDate", mock.Anything, mock.Anything).
			Return([]*domain.PromiseToPay{}, nil)
		f.ptpRepo.On("ListActiveOverdue", mock.Anything, mock.Anything).
			Return([]*domain.PromiseToPay{}, nil)
		f.accountRepo.On("ListActiveInTier", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]*domain.Account{}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		h := NewChecksHandler(f.service)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checks/run", nil).WithContext(ctx)
		rec := httptest.NewRecorder()

		h.RunChecks(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		f.locker.AssertCalled(t, "TryAcquire", liveContext, mock.Anything)
		f.locker.AssertCalled(t, "Release", mock.Anything)
	})

	t.Run("reports conflict while another run holds the lock", func(t *testing.T) {
		f := newHandlerFixture()
		f.locker.On("TryAcquire", mock.Anything, mock.Anything).Return(false, nil)

		h := NewChecksHandler(f.service)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checks/run", nil)
		rec := httptest.NewRecorder()

		h.RunChecks(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
