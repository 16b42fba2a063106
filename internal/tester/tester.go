package tester

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/procdoc/sopgov/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	db *gorm.DB

	// testPath is anchored on this file so tests at any package depth share
	// one database location.
	testPath string
)

func init() {
	_, file, _, _ := runtime.Caller(0)
	testPath = filepath.Join(filepath.Dir(file), "..", "..", ".test")
}

func Setup() {
	RemoveDBFile()

	_ = os.Setenv("ENV", "test")

	err := os.MkdirAll(filepath.Join(testPath, "db"), os.ModePerm)
	if err != nil {
		panic(err)
	}

	db, err = gorm.Open(sqlite.Open(filepath.Join(testPath, "db", "sopgov.db")), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	err = model.Migrate(db)
	if err != nil {
		panic(err)
	}
}

func TestDB() *gorm.DB {
	return db
}

func RemoveDBFile() {
	err := os.RemoveAll(testPath)
	if err != nil {
		panic(err)
	}
}
