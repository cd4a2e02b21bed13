package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	createTables(t, db)
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE accounts (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		refresh_token_hash TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE profiles (
		id TEXT PRIMARY KEY,
		account_id TEXT UNIQUE NOT NULL,
		full_name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		phone TEXT,
		date_of_birth DATETIME,
		address TEXT,
		city TEXT,
		country TEXT,
		nationality TEXT,
		occupation TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE kyc_records (
		id TEXT PRIMARY KEY,
		account_id TEXT UNIQUE NOT NULL,
		incomes TEXT NOT NULL,
		assets TEXT NOT NULL,
		liabilities TEXT NOT NULL,
		wealth_sources TEXT NOT NULL,
		investment_experience TEXT NOT NULL,
		risk_tolerance TEXT NOT NULL,
		net_worth TEXT NOT NULL,
		status TEXT NOT NULL,
		reviewed_at DATETIME,
		reviewed_by TEXT,
		reject_reason TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
