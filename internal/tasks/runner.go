package tasks

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/covernet/covernet/internal/cache"
	"github.com/covernet/covernet/internal/db"
	"github.com/covernet/covernet/internal/feed"
	"github.com/covernet/covernet/internal/models"
	"github.com/covernet/covernet/pkg/logging"
	"github.com/covernet/covernet/pkg/telemetry"
)

// exportResultTTL controls how long a finished export stays retrievable
const exportResultTTL = 24 * time.Hour

// Runner consumes jobs from the queue and executes them. Failures are logged
// and the task is still driven to completion so clients never poll forever.
type Runner struct {
	queue  *Queue
	tasks  *db.TaskRepository
	posts  *db.PostRepository
	users  *db.UserRepository
	feed   *feed.Service
	cache  *cache.Cache
	logger *zap.Logger
}

// NewRunner creates a new task runner
func NewRunner(queue *Queue, tasks *db.TaskRepository, posts *db.PostRepository, users *db.UserRepository, feedSvc *feed.Service, c *cache.Cache) *Runner {
	return &Runner{
		queue:  queue,
		tasks:  tasks,
		posts:  posts,
		users:  users,
		feed:   feedSvc,
		cache:  c,
		logger: logging.WithComponent("worker"),
	}
}

// Run processes jobs until the context is cancelled
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("worker started")
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("worker stopping")
			return ctx.Err()
		default:
		}

		job, err := r.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Error("failed to dequeue job", zap.Error(err))
			continue
		}
		if job == nil {
			continue
		}

		r.process(ctx, job)
	}
}

func (r *Runner) process(ctx context.Context, job *Job) {
	ctx, span := telemetry.StartSpan(ctx, "tasks.process")
	defer span.End()

	r.logger.Info("processing job",
		zap.String("job_id", job.ID),
		zap.String("name", job.Name),
		zap.Int64("user_id", job.UserID))

	switch job.Name {
	case models.TaskExportPosts:
		r.exportPosts(ctx, job)
	default:
		r.logger.Error("unknown job name", zap.String("job_id", job.ID), zap.String("name", job.Name))
		r.setProgress(ctx, job, 100)
	}
}

// exportPosts collects the user's posts oldest first and stores the rendered
// export in the cache. The deferred progress update runs on every exit path,
// including failures, so the task handle always completes.
func (r *Runner) exportPosts(ctx context.Context, job *Job) {
	defer r.setProgress(ctx, job, 100)

	user, err := r.users.GetByID(ctx, job.UserID)
	if err != nil || user == nil {
		r.logger.Error("export user lookup failed", zap.String("job_id", job.ID), zap.Error(err))
		return
	}

	posts, err := r.posts.ListByUserOldestFirst(ctx, user.ID)
	if err != nil {
		r.logger.Error("export post listing failed", zap.String("job_id", job.ID), zap.Error(err))
		return
	}

	data := make([]map[string]interface{}, 0, len(posts))
	for i, post := range posts {
		data = append(data, map[string]interface{}{
			"body":      post.Body,
			"timestamp": post.CreatedAt.UTC().Format(time.RFC3339),
		})
		if progress := i * 100 / len(posts); progress < 100 {
			r.setProgress(ctx, job, progress)
		}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"username": user.Username,
		"posts":    data,
	})
	if err != nil {
		r.logger.Error("export marshal failed", zap.String("job_id", job.ID), zap.Error(err))
		return
	}

	if err := r.cache.Set(cache.ExportResultKey(job.ID), payload, exportResultTTL); err != nil {
		r.logger.Error("export result store failed", zap.String("job_id", job.ID), zap.Error(err))
		return
	}

	r.logger.Info("export complete", zap.String("job_id", job.ID), zap.Int("posts", len(posts)))
}

// setProgress publishes a task_progress notification and, at 100, marks the
// task handle complete.
func (r *Runner) setProgress(ctx context.Context, job *Job, progress int) {
	err := r.feed.Notify(ctx, job.UserID, models.NotifyTaskProgress, map[string]interface{}{
		"task_id":  job.ID,
		"progress": progress,
	})
	if err != nil {
		r.logger.Error("failed to record task progress", zap.String("job_id", job.ID), zap.Error(err))
	}

	if progress < 100 {
		return
	}
	task, err := r.tasks.GetByID(ctx, job.ID)
	if err != nil || task == nil {
		r.logger.Error("task handle lookup failed", zap.String("job_id", job.ID), zap.Error(err))
		return
	}
	if !task.Complete {
		task.Complete = true
		if err := r.tasks.Update(ctx, task); err != nil {
			r.logger.Error("failed to complete task handle", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
}
