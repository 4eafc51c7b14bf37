package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueKey is the Redis list jobs are pushed onto.
const DefaultQueueKey = "jobs:default"

// ErrQueueFull is returned by MemoryQueue when its buffer is exhausted.
var ErrQueueFull = errors.New("job queue is full")

// Queue accepts jobs from producers and hands them to a Worker.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	// Dequeue blocks until a job is available or ctx is done.
	Dequeue(ctx context.Context) (Job, error)
}

// RedisQueue is a Redis list: LPUSH to enqueue, BRPOP to consume.
// A job popped by a worker that then crashes is lost.
type RedisQueue struct {
	client  *redis.Client
	key     string
	pollFor time.Duration
}

// NewRedisQueue returns a queue on DefaultQueueKey.
func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client, key: DefaultQueueKey, pollFor: time.Second}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return q.client.LPush(ctx, q.key, raw).Err()
}

func (q *RedisQueue) Dequeue(ctx context.Context) (Job, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Job{}, err
		}

		res, err := q.client.BRPop(ctx, q.pollFor, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Job{}, ctxErr
			}
			return Job{}, err
		}

		// res is [key, value]
		var job Job
		if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
			return Job{}, fmt.Errorf("decode job: %w", err)
		}
		return job, nil
	}
}

// MemoryQueue is an in-process buffered queue used when Redis is unavailable.
type MemoryQueue struct {
	ch chan Job
}

// NewMemoryQueue returns a queue holding up to size pending jobs.
func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 100
	}
	return &MemoryQueue{ch: make(chan Job, size)}
}

func (q *MemoryQueue) Enqueue(_ context.Context, job Job) error {
	select {
	case q.ch <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (Job, error) {
	select {
	case <-ctx.Done():
		return Job{}, ctx.Err()
	case job := <-q.ch:
		return job, nil
	}
}
