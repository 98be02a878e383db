package test

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"todos/internal/adapter/database"
	"todos/internal/adapter/database/sqlite"
)

// InitTestDB returns an isolated in-memory sqlite database with the
// migrations applied. Each call gets its own named shared-cache database.
func InitTestDB() *database.DB {
	name := strings.ReplaceAll(uuid.NewString(), "-", "")

	db, err := sqlite.NewDB(database.Options{
		DSN:          fmt.Sprintf("file:test_%s?mode=memory&cache=shared", name),
		Name:         "todos_test",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, zerolog.Nop())
	if err != nil {
		log.Fatal(err)
	}

	return db
}

// CleanDB removes every todo, keeping the schema.
func CleanDB(db *database.DB) {
	if _, err := db.Exec("DELETE FROM todos"); err != nil {
		log.Fatal(err)
	}
}
