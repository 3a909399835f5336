package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"course-notes-be/internal/dto"
	"course-notes-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const (
	notesKeyPrefix   = "notes:"
	versionKeyPrefix = "notes:ver:"
)

type RedisNotesCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisNotesCache(rdb *redis.Client, ttl time.Duration) contract.NotesCache {
	return &RedisNotesCache{rdb: rdb, ttl: ttl}
}

func notesKey(seriesId, userFileId int64) string {
	return fmt.Sprintf("%s%d:%d", notesKeyPrefix, seriesId, userFileId)
}

func versionKey(seriesId, userFileId int64) string {
	return fmt.Sprintf("%s%d:%d", versionKeyPrefix, seriesId, userFileId)
}

// Get reports a miss as (nil, false, nil); only transport or decode failures are errors.
func (c *RedisNotesCache) Get(ctx context.Context, seriesId, userFileId int64) ([]dto.NoteRecordResponse, bool, error) {
	raw, err := c.rdb.Get(ctx, notesKey(seriesId, userFileId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var records []dto.NoteRecordResponse
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false, fmt.Errorf("decode cached notes: %w", err)
	}
	return records, true, nil
}

func (c *RedisNotesCache) Version(ctx context.Context, seriesId, userFileId int64) (int64, error) {
	return readVersion(ctx, c.rdb, versionKey(seriesId, userFileId))
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, cmd stringGetter, key string) (int64, error) {
	v, err := cmd.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Set stores records only while the file version still equals version. A
// concurrent Invalidate aborts the transaction and the records are dropped.
func (c *RedisNotesCache) Set(ctx context.Context, seriesId, userFileId, version int64, records []dto.NoteRecordResponse) (bool, error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return false, err
	}

	verKey := versionKey(seriesId, userFileId)
	stored := false
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, verKey)
		if err != nil {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, notesKey(seriesId, userFileId), raw, c.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		stored = true
		return nil
	}, verKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}

// Invalidate bumps the version and drops the cached list in one transaction.
func (c *RedisNotesCache) Invalidate(ctx context.Context, seriesId, userFileId int64) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(seriesId, userFileId))
		pipe.Del(ctx, notesKey(seriesId, userFileId))
		return nil
	})
	return err
}
