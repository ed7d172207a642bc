package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
)

func TestNewRouter_RegistersConfiguredRoutes(t *testing.T) {
	router := NewRouter(RouterConfig{
		Database:   &fakePinger{},
		Processor:  &fakeProcessor{running: true},
		Queue:      &fakeQueueReader{counts: map[entities.QueueStatus]int64{}},
		TaskClient: &fakeTaskRunner{},
		Settings:   &fakeSettings{},
		Audit:      &fakeAuditLog{},
		Version:    "test",
	})

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/ping"},
		{"GET", "/api/sync/status"},
		{"GET", "/api/sync/queue"},
		{"GET", "/api/tasks/types"},
		{"GET", "/api/settings/aims"},
		{"GET", "/api/audit"},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := doRequest(router, tc.method, tc.path)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestNewRouter_OptionalRoutesDisabled(t *testing.T) {
	router := NewRouter(RouterConfig{
		Processor: &fakeProcessor{},
		Queue:     &fakeQueueReader{},
	})

	assert.Equal(t, http.StatusNotFound, doRequest(router, "GET", "/api/settings/aims").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(router, "GET", "/api/audit").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(router, "GET", "/api/tasks/types").Code)
}
