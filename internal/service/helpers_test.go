package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-resources/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// 内存库每个连接独立,只能用一个连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, model.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) model.User {
	t.Helper()
	u := model.User{Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func createResource(t *testing.T, db *gorm.DB, r model.Resource) model.Resource {
	t.Helper()
	require.NoError(t, db.Create(&r).Error)
	return r
}

type fakeScreener struct {
	err error
}

func (f fakeScreener) Screen(context.Context, string, string, string) error { return f.err }

type fakeQueue struct {
	mu  sync.Mutex
	ids []uint
	err error
}

func (q *fakeQueue) Enqueue(id uint) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.ids = append(q.ids, id)
	return nil
}
