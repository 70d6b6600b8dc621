package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testItem struct {
	ID  uint   `gorm:"primaryKey"`
	Key string `gorm:"uniqueIndex"`
}

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&testItem{}))
	return db
}

// itemSession creates one row per unseen key and stages it until Flush.
type itemSession struct {
	tx       *gorm.DB
	staged   []*testItem
	seen     map[string]bool
	flushes  int
	failWith error
}

func (s *itemSession) Apply(ctx context.Context, key string) (ActionType, error) {
	if key == "fatal" {
		return "", errors.New("missing fallback")
	}
	if key == "" {
		return ActionSkipped, nil
	}
	if s.seen[key] {
		return ActionUpdated, nil
	}
	var count int64
	s.tx.Model(&testItem{}).Where("key = ?", key).Count(&count)
	s.seen[key] = true
	if count > 0 {
		return ActionUpdated, nil
	}
	s.staged = append(s.staged, &testItem{Key: key})
	return ActionCreated, nil
}

func (s *itemSession) Flush(ctx context.Context) error {
	s.flushes++
	if s.failWith != nil {
		return s.failWith
	}
	for _, item := range s.staged {
		if err := s.tx.Create(item).Error; err != nil {
			return err
		}
	}
	s.staged = nil
	return nil
}

func factory(sessions *[]*itemSession, failFirst error) SessionFactory[string] {
	return func(tx *gorm.DB) Session[string] {
		s := &itemSession{tx: tx, seen: map[string]bool{}}
		if len(*sessions) == 0 {
			s.failWith = failFirst
		}
		*sessions = append(*sessions, s)
		return s
	}
}

func countItems(db *gorm.DB) int64 {
	var n int64
	db.Model(&testItem{}).Count(&n)
	return n
}

func TestRunBatch_Commits(t *testing.T) {
	db := setupTestDB(t, "batch_commit")
	var sessions []*itemSession

	summary, err := RunBatch(context.Background(), db, []string{"a", "b", "a", ""}, factory(&sessions, nil), Options{})
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Attempts)
	assert.Equal(t, int64(2), countItems(db))
}

func TestRunBatch_DryRunRollsBack(t *testing.T) {
	db := setupTestDB(t, "batch_dry")
	var sessions []*itemSession

	summary, err := RunBatch(context.Background(), db, []string{"a", "b"}, factory(&sessions, nil), Options{DryRun: true})
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, int64(0), countItems(db))
}

func TestRunBatch_FatalErrorRollsBack(t *testing.T) {
	db := setupTestDB(t, "batch_fatal")
	var sessions []*itemSession

	_, err := RunBatch(context.Background(), db, []string{"a", "fatal"}, factory(&sessions, nil), Options{FlushEvery: 1, MaxAttempts: 3})
	assert.EqualError(t, err, "record 1: missing fallback")
	assert.Len(t, sessions, 1, "non-conflict errors are not retried")
	assert.Equal(t, int64(0), countItems(db))
}

func TestRunBatch_FlushEvery(t *testing.T) {
	db := setupTestDB(t, "batch_flush")
	var sessions []*itemSession

	_, err := RunBatch(context.Background(), db, []string{"a", "b", "c", "d", "e"}, factory(&sessions, nil), Options{FlushEvery: 2})
	require.NoError(t, err)

	// after records 2 and 4, plus the final flush
	assert.Equal(t, 3, sessions[0].flushes)
}

func TestRunBatch_RetriesDuplicateKey(t *testing.T) {
	db := setupTestDB(t, "batch_retry")
	var sessions []*itemSession

	conflict := fmt.Errorf("save reservation: %w", gorm.ErrDuplicatedKey)
	summary, err := RunBatch(context.Background(), db, []string{"a"}, factory(&sessions, conflict), Options{MaxAttempts: 3})
	require.NoError(t, err)

	assert.Len(t, sessions, 2)
	assert.Equal(t, 2, summary.Attempts)
	assert.Equal(t, int64(1), countItems(db))
}

func TestRunBatch_GivesUpAfterMaxAttempts(t *testing.T) {
	db := setupTestDB(t, "batch_give_up")
	require.NoError(t, db.Create(&testItem{Key: "taken"}).Error)

	newSession := func(tx *gorm.DB) Session[string] {
		return &itemSession{tx: tx, seen: map[string]bool{}, staged: []*testItem{{Key: "taken"}}}
	}

	_, err := RunBatch(context.Background(), db, []string{}, newSession, Options{MaxAttempts: 2})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.ErrorContains(t, err, "after 2 attempts")
}

func TestRunBatch_CanceledContext(t *testing.T) {
	db := setupTestDB(t, "batch_cancel")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var sessions []*itemSession
	_, err := RunBatch(ctx, db, []string{"a"}, factory(&sessions, nil), Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sessions)
}
