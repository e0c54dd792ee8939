package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/covernet/covernet/internal/cache"
	"github.com/covernet/covernet/internal/models"
	"github.com/covernet/covernet/internal/tasks"
)

// exportPosts launches a background export of the current user's posts.
// One export per user at a time.
func (s *Server) exportPosts(c *gin.Context) {
	if s.queue == nil {
		serviceUnavailable(c, "task queue is not configured")
		return
	}

	ctx := c.Request.Context()
	user := currentUser(c)

	running, err := s.tasks.GetInProgress(ctx, user.ID, models.TaskExportPosts)
	if err != nil {
		internalError(c, err)
		return
	}
	if running != nil {
		badRequest(c, "an export is already in progress")
		return
	}

	job := tasks.NewJob(models.TaskExportPosts, user.ID)
	task := &models.Task{
		ID:          job.ID,
		Name:        job.Name,
		Description: "Exporting posts...",
		UserID:      user.ID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		internalError(c, err)
		return
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, renderTask(task, 0))
}

// listTasks returns the current user's task handles
func (s *Server) listTasks(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)

	userTasks, err := s.tasks.ListByUser(ctx, user.ID)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(userTasks))
	for _, task := range userTasks {
		items = append(items, renderTask(task, s.taskProgress(ctx, task)))
	}
	c.JSON(http.StatusOK, gin.H{"tasks": items})
}

// getTask returns a single task handle with its progress
func (s *Server) getTask(c *gin.Context) {
	ctx := c.Request.Context()
	task, err := s.tasks.GetByID(ctx, c.Param("id"))
	if err != nil {
		internalError(c, err)
		return
	}
	if task == nil {
		notFound(c, "task not found")
		return
	}
	if !canActFor(c, task.UserID) {
		forbidden(c)
		return
	}

	out := renderTask(task, s.taskProgress(ctx, task))
	if task.Complete {
		if result, err := s.cache.Get(cache.ExportResultKey(task.ID)); err == nil {
			out["result"] = json.RawMessage(result)
		}
	}
	c.JSON(http.StatusOK, out)
}

// taskProgress reads the task_progress notification for the task. A missing
// or unreadable progress record degrades to 100 so clients never poll a dead
// task forever.
func (s *Server) taskProgress(ctx context.Context, task *models.Task) int {
	if task.Complete {
		return 100
	}

	notif, err := s.notifs.GetByName(ctx, task.UserID, models.NotifyTaskProgress)
	if err != nil || notif == nil {
		return 100
	}

	var payload struct {
		TaskID   string `json:"task_id"`
		Progress int    `json:"progress"`
	}
	if err := json.Unmarshal([]byte(notif.Payload), &payload); err != nil {
		return 100
	}
	if payload.TaskID != task.ID {
		return 100
	}
	return payload.Progress
}
