package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Queue очередь уведомлений на списке Redis (LPUSH / BRPOP)
type Queue struct {
	client *redis.Client
	key    string
}

// NewQueue создает очередь на ключе key
func NewQueue(client *redis.Client, key string) *Queue {
	return &Queue{client: client, key: key}
}

// Enqueue кладет задачу в очередь
func (q *Queue) Enqueue(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("%w: Enqueue - marshal: %v", ErrQueue, err)
	}
	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("%w: Enqueue - lpush: %v", ErrQueue, err)
	}
	return nil
}

// Dequeue ждет задачу не дольше timeout.
// Пустая очередь дает ErrQueueEmpty.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrQueueEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Dequeue - brpop: %v", ErrQueue, err)
	}

	// BRPOP возвращает [key, value]
	if len(res) != 2 {
		return nil, fmt.Errorf("%w: Dequeue - unexpected reply length %d", ErrQueue, len(res))
	}

	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &job, nil
}

// Len текущая длина очереди
func (q *Queue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: Len - llen: %v", ErrQueue, err)
	}
	return n, nil
}

// Ping проверяет доступность Redis
func (q *Queue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}
