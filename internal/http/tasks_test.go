package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvivElectis/electisSpace-sub002/internal/tasks"
)

func setupTasksRouter(runner *fakeTaskRunner) *gin.Engine {
	controller := NewTasksController(runner)

	router := gin.New()
	router.GET("/api/tasks/types", controller.ListTaskTypes)
	router.GET("/api/tasks/:id", controller.GetTaskStatus)
	router.POST("/api/tasks/:type/run", controller.RunTask)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestTasksController_RunTask(t *testing.T) {
	t.Run("enqueues a sweep without parameters", func(t *testing.T) {
		runner := &fakeTaskRunner{}
		router := setupTasksRouter(runner)

		w := postJSON(router, "/api/tasks/sync_sweep/run", "")

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Contains(t, w.Body.String(), `"task_id":"task-1"`)
		require.Len(t, runner.enqueued, 1)
		assert.IsType(t, tasks.SyncSweepTask{}, runner.enqueued[0])
	})

	t.Run("decodes reprocess parameters", func(t *testing.T) {
		runner := &fakeTaskRunner{}
		router := setupTasksRouter(runner)

		w := postJSON(router, "/api/tasks/sync_reprocess_item/run", `{"item_id":"item-7"}`)

		assert.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, runner.enqueued, 1)
		assert.Equal(t, tasks.SyncReprocessItemTask{ItemID: "item-7"}, runner.enqueued[0])
	})

	t.Run("reprocess requires an item id", func(t *testing.T) {
		runner := &fakeTaskRunner{}
		router := setupTasksRouter(runner)

		w := postJSON(router, "/api/tasks/sync_reprocess_item/run", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, runner.enqueued)
	})

	t.Run("unknown type", func(t *testing.T) {
		router := setupTasksRouter(&fakeTaskRunner{})

		w := postJSON(router, "/api/tasks/enrich_book/run", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed parameters", func(t *testing.T) {
		router := setupTasksRouter(&fakeTaskRunner{})

		w := postJSON(router, "/api/tasks/cleanup_sync_queue/run", `{"retention_days":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("enqueue failure", func(t *testing.T) {
		router := setupTasksRouter(&fakeTaskRunner{err: errBoom})

		w := postJSON(router, "/api/tasks/sync_sweep/run", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestTasksController_GetTaskStatus(t *testing.T) {
	runner := &fakeTaskRunner{statuses: map[string]backlite.TaskStatus{
		"task-1": backlite.TaskStatusSuccess,
	}}
	router := setupTasksRouter(runner)

	w := doRequest(router, "GET", "/api/tasks/task-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)

	w = doRequest(router, "GET", "/api/tasks/missing")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"not_found"`)
}

func TestTasksController_ListTaskTypes(t *testing.T) {
	router := setupTasksRouter(&fakeTaskRunner{})

	w := doRequest(router, "GET", "/api/tasks/types")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sync_sweep")
	assert.Contains(t, w.Body.String(), "cleanup_audit_events")
}

func TestTaskStatusToString(t *testing.T) {
	assert.Equal(t, "pending", taskStatusToString(backlite.TaskStatusPending))
	assert.Equal(t, "running", taskStatusToString(backlite.TaskStatusRunning))
	assert.Equal(t, "failure", taskStatusToString(backlite.TaskStatusFailure))
}
