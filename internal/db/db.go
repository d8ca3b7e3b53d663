package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the sqlite database at the given path and runs the
// automatic migrations. An empty path falls back to pekablog.db. The caller
// owns the returned handle and closes it at shutdown.
//
// TranslateError is enabled so that unique-constraint violations surface as
// gorm.ErrDuplicatedKey; the post write path relies on that for slug
// conflicts raced past the in-transaction check.
func Open(databasePath string) (*gorm.DB, error) {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "pekablog.db"
	}

	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := gdb.AutoMigrate(&User{}, &Post{}, &Comment{}); err != nil {
		return nil, err
	}

	return gdb, nil
}

// Close releases the underlying sql connection pool.
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
