package locationsharinglib

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver (pure Go).
)

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

// The browser may hold its cookie database open with a write lock, so reads
// go through a temp-dir snapshot. WAL sidecars are carried along when
// present, otherwise recent writes would be invisible.
func snapshotCookieDB(dbPath string) (snapshotPath string, cleanup func(), err error) {
	dir, err := os.MkdirTemp("", "locationsharinglib-cookies-")
	if err != nil {
		return "", nil, err
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	target := filepath.Join(dir, filepath.Base(dbPath))
	if err := copyFile(dbPath, target); err != nil {
		cleanup()
		return "", nil, err
	}
	_ = copyFileIfExists(dbPath+"-wal", target+"-wal")
	_ = copyFileIfExists(dbPath+"-shm", target+"-shm")

	return target, cleanup, nil
}

func openCookieDB(ctx context.Context, snapshotPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(snapshotPath)+"?mode=ro")
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// sessionCookieWhereArgs builds the name filter for the two recognized
// session cookie names against the given column.
func sessionCookieWhereArgs(nameColumn string) (string, []any) {
	args := make([]any, 0, len(sessionCookieNames))
	clause := nameColumn + " IN ("
	for i, n := range sessionCookieNames {
		if i > 0 {
			clause += ","
		}
		clause += "?"
		args = append(args, n)
	}
	clause += ")"
	return clause, args
}
