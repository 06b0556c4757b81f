package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lectureCountTTL = 10 * time.Minute

// LectureCountSource - откуда брать число лекций, если в кеше пусто
type LectureCountSource interface {
	CountLectures(ctx context.Context, courseID uuid.UUID) (int64, error)
}

// LectureCountCache - read-through кеш количества лекций курса.
// Redis недоступен - идем в базу, запрос не падает.
type LectureCountCache struct {
	client *redis.Client
	source LectureCountSource
	logger *slog.Logger
}

func NewLectureCountCache(client *redis.Client, source LectureCountSource, logger *slog.Logger) *LectureCountCache {
	return &LectureCountCache{client: client, source: source, logger: logger}
}

func lectureCountKey(courseID uuid.UUID) string {
	return "course:lectures:count:" + courseID.String()
}

func (c *LectureCountCache) CountLectures(ctx context.Context, courseID uuid.UUID) (int64, error) {
	key := lectureCountKey(courseID)

	val, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if n, perr := strconv.ParseInt(val, 10, 64); perr == nil {
			return n, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("lecture count cache read failed", "course_id", courseID, "error", err)
	}

	n, err := c.source.CountLectures(ctx, courseID)
	if err != nil {
		return 0, err
	}

	if err := c.client.Set(ctx, key, n, lectureCountTTL).Err(); err != nil {
		c.logger.Warn("lecture count cache write failed", "course_id", courseID, "error", err)
	}
	return n, nil
}

// Invalidate сбрасывает счетчик, например после изменения списка лекций
func (c *LectureCountCache) Invalidate(ctx context.Context, courseID uuid.UUID) error {
	return c.client.Del(ctx, lectureCountKey(courseID)).Err()
}
