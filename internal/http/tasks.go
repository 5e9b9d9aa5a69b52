package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/placebook/internal/logger"
	"github.com/mrlokans/placebook/internal/tasks"
)

// TasksController enqueues background jobs and reports their status.
type TasksController struct {
	queue              TaskQueue
	bookmarks          BookmarkReader
	auditRetentionDays int
	log                logger.Logger
}

func NewTasksController(queue TaskQueue, bookmarks BookmarkReader, auditRetentionDays int, log logger.Logger) *TasksController {
	return &TasksController{queue: queue, bookmarks: bookmarks, auditRetentionDays: auditRetentionDays, log: log}
}

type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ListTaskTypes handles GET /api/tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"task_types": []TaskTypeInfo{
		{Type: "prune_photos", Description: "Delete photo files of removed bookmarks"},
		{Type: "cleanup_audit_events", Description: "Delete audit events past retention"},
	}})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, tc.log, err, "task status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": taskID, "status": taskStatusToString(status)})
}

// RunTask handles POST /api/tasks/run/:type
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var task backlite.Task
	switch taskType {
	case "prune_photos":
		task = tasks.PrunePhotosTask{}
	case "cleanup_audit_events":
		task = tasks.CleanupAuditEventsTask{RetentionDays: tc.auditRetentionDays}
	default:
		respondBadRequest(c, "unknown task type: "+taskType)
		return
	}
	tc.enqueue(c, task, taskType)
}

// RefreshBookmark handles POST /api/bookmarks/:id/refresh
func (tc *TasksController) RefreshBookmark(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	b, err := tc.bookmarks.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, tc.log, err, "refresh bookmark")
		return
	}
	if !b.HasPlace() {
		respondBadRequest(c, "bookmark has no place to refresh from")
		return
	}
	tc.enqueue(c, tasks.RefreshPlaceTask{BookmarkID: id}, "refresh_place")
}

func (tc *TasksController) enqueue(c *gin.Context, task backlite.Task, taskType string) {
	ids, err := tc.queue.Enqueue(c.Request.Context(), task)
	if err != nil {
		respondInternalError(c, tc.log, err, "enqueue "+taskType)
		return
	}
	respondAccepted(c, "task enqueued", gin.H{"task_id": ids[0], "type": taskType})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
