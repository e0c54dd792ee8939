package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/covernet/covernet/pkg/config"
	"github.com/covernet/covernet/pkg/logging"
)

// Job is a unit of background work pushed through the Redis queue
type Job struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID int64  `json:"user_id"`
}

// NewJob creates a job with a fresh id
func NewJob(name string, userID int64) *Job {
	return &Job{
		ID:     uuid.NewString(),
		Name:   name,
		UserID: userID,
	}
}

// Queue is a Redis-backed job queue. Producers push with Enqueue; the worker
// blocks on Dequeue.
type Queue struct {
	client      *redis.Client
	name        string
	pollTimeout time.Duration
}

// NewQueue creates a new job queue
func NewQueue(redisCfg *config.RedisConfig, workerCfg *config.WorkerConfig) (*Queue, error) {
	if !redisCfg.Enabled {
		return nil, fmt.Errorf("task queue requires redis_url to be set")
	}

	opt, err := redis.ParseURL(redisCfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetLogger().Info("task queue connected")

	return &Queue{
		client:      client,
		name:        workerCfg.QueueName,
		pollTimeout: workerCfg.PollTimeout,
	}, nil
}

// Enqueue pushes a job onto the queue
func (q *Queue) Enqueue(ctx context.Context, job *Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return q.client.LPush(ctx, q.name, payload).Err()
}

// Dequeue pops the next job, blocking up to the poll timeout. A nil job with
// nil error means the poll timed out with nothing queued.
func (q *Queue) Dequeue(ctx context.Context) (*Job, error) {
	result, err := q.client.BRPop(ctx, q.pollTimeout, q.name).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// BRPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of length %d", len(result))
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &job, nil
}

// Close closes the queue's Redis connection
func (q *Queue) Close() error {
	return q.client.Close()
}
