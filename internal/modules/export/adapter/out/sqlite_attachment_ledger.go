package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mdnotes/internal/modules/export/domain"
	"mdnotes/internal/platform/clock"

	_ "modernc.org/sqlite"
)

// AttachmentRecord is one generated file linked to an item.
type AttachmentRecord struct {
	ItemKey      string
	Path         string
	RunID        string
	DateAdded    time.Time
	DateModified time.Time
}

type SQLiteAttachmentLedger struct {
	db    *sql.DB
	clock clock.Clock
}

func NewSQLiteAttachmentLedger(dbPath string, clk clock.Clock) (*SQLiteAttachmentLedger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}
	l := &SQLiteAttachmentLedger{db: db, clock: clk}
	if err := l.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

func (l *SQLiteAttachmentLedger) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS attachments (
  item_key TEXT NOT NULL,
  path TEXT NOT NULL,
  run_id TEXT NOT NULL,
  date_added TEXT NOT NULL,
  date_modified TEXT NOT NULL,
  PRIMARY KEY (item_key, path)
);
CREATE INDEX IF NOT EXISTS idx_attachments_run ON attachments(run_id);
`
	if _, err := l.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create attachments table: %w", err)
	}
	return nil
}

func (l *SQLiteAttachmentLedger) Link(ctx context.Context, runID, itemKey, path string, create bool) (domain.LinkResult, error) {
	now := l.clock.Now().UTC().Format(time.RFC3339Nano)
	res, err := l.db.ExecContext(ctx, `
UPDATE attachments SET date_modified = ?, run_id = ?
WHERE item_key = ? AND path = ?;
`, now, runID, itemKey, path)
	if err != nil {
		return "", fmt.Errorf("refresh attachment: %w", err)
	}
	updated, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("refresh attachment: %w", err)
	}
	if updated > 0 {
		return domain.LinkRefreshed, nil
	}
	if !create {
		return domain.LinkSkipped, nil
	}
	if _, err := l.db.ExecContext(ctx, `
INSERT INTO attachments (item_key, path, run_id, date_added, date_modified)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(item_key, path) DO UPDATE SET
  date_modified = excluded.date_modified,
  run_id = excluded.run_id;
`, itemKey, path, runID, now, now); err != nil {
		return "", fmt.Errorf("insert attachment: %w", err)
	}
	return domain.LinkCreated, nil
}

func (l *SQLiteAttachmentLedger) Attachments(ctx context.Context, itemKey string) ([]AttachmentRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
SELECT item_key, path, run_id, date_added, date_modified
FROM attachments
WHERE item_key = ?
ORDER BY path ASC;
`, itemKey)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	out := []AttachmentRecord{}
	for rows.Next() {
		var rec AttachmentRecord
		var added, modified string
		if err := rows.Scan(&rec.ItemKey, &rec.Path, &rec.RunID, &added, &modified); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		if rec.DateAdded, err = time.Parse(time.RFC3339Nano, added); err != nil {
			return nil, fmt.Errorf("parse date_added: %w", err)
		}
		if rec.DateModified, err = time.Parse(time.RFC3339Nano, modified); err != nil {
			return nil, fmt.Errorf("parse date_modified: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}
	return out, nil
}

func (l *SQLiteAttachmentLedger) Close() error {
	return l.db.Close()
}
