package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dm9/collections-engine/tests/mocks"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		held     bool
		heldErr  error
		expected string
	}{
		{"reports a running daily checks run", true, nil, `"daily_checks":"running"`},
		{"reports idle between runs", false, nil, `"daily_checks":"idle"`},
		{"reports unknown when the lock cannot be read", false, errors.New("redis down"), `"daily_checks":"unknown"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locker := &mocks.MockRunLocker{}
			locker.On("Held", mock.Anything).Return(tt.held, tt.heldErr)

			h := NewHealthHandler(nil, nil, locker)
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()

			h.Health(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expected)
		})
	}
}
