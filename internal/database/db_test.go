package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/facultysite/internal/models"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Exec("SELECT 1").Error)
	require.NoError(t, Ping(context.Background(), db))
}

func TestOpenSQLiteFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "site.db")

	db, err := Open(Config{Driver: "sqlite", Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, AutoMigrate(db))
	require.FileExists(t, path)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.ErrorContains(t, err, "unsupported database driver")
}

func TestAutoMigrateCreatesTables(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	migrator := db.Migrator()
	for _, model := range Models() {
		require.True(t, migrator.HasTable(model), "missing table for %T", model)
	}
	require.True(t, migrator.HasIndex(&models.Course{}, "idx_course_code_semester"))
	require.True(t, migrator.HasColumn(&models.Chapter{}, "sort_order"))
}

func TestCourseKeyIsUniqueInStorage(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	first := models.Course{CourseName: "Calculus", CourseCode: "MAT101", Semester: "1-1"}
	require.NoError(t, db.Create(&first).Error)

	dup := models.Course{CourseName: "Calculus again", CourseCode: "MAT101", Semester: "1-1"}
	err := db.Create(&dup).Error
	require.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "expected duplicated key, got %v", err)

	other := models.Course{CourseName: "Calculus", CourseCode: "MAT101", Semester: "1-2"}
	require.NoError(t, db.Create(&other).Error)
}

func TestSingletonKeyIsUniqueInStorage(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	require.NoError(t, db.Create(&models.Social{Key: models.SingletonKey}).Error)
	err := db.Create(&models.Social{Key: models.SingletonKey}).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite", DSN: MemoryDSN(uuid.NewString())})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = Close(db)
	})
	return db
}
