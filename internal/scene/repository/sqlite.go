package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"column3d/internal/scene/models"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	_ "github.com/ncruces/go-sqlite3/vfs/memdb"
)

// ============================================================
// SQLite Repository
// ============================================================

var ErrNotFound = errors.New("session not found")

//go:embed migrations/*.sql
var migrations embed.FS

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init применяет миграции из migrations/.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ============================================================
// Sessions
// ============================================================

func (r *Repository) CreateSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO sessions (id) VALUES (?)`, id)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *Repository) SessionExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) DeleteSession(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// foreign_keys не включены, поэтому дочерние строки удаляются явно
	for _, q := range []string{
		`DELETE FROM dataset_entries WHERE session_id = ?`,
		`DELETE FROM session_styles WHERE session_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("delete session data: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// ============================================================
// Datasets
// ============================================================

// SaveDataset заменяет набор данных сессии целиком, сохраняя порядок записей.
func (r *Repository) SaveDataset(ctx context.Context, sessionID string, ds models.Dataset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := touch(ctx, tx, sessionID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM dataset_entries WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clear dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO dataset_entries (session_id, position, label, value)
        VALUES (?, ?, ?, ?)
    `)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range ds {
		var value any = e.Value
		if math.IsNaN(e.Value) {
			value = nil
		}
		if _, err := stmt.ExecContext(ctx, sessionID, i, e.Label, value); err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (r *Repository) LoadDataset(ctx context.Context, sessionID string) (models.Dataset, error) {
	ok, err := r.SessionExists(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT label, value
        FROM dataset_entries
        WHERE session_id = ?
        ORDER BY position
    `, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query dataset: %w", err)
	}
	defer rows.Close()

	ds := models.Dataset{}
	for rows.Next() {
		var label string
		var value sql.NullFloat64
		if err := rows.Scan(&label, &value); err != nil {
			return nil, err
		}
		v := math.NaN()
		if value.Valid {
			v = value.Float64
		}
		ds = append(ds, models.Entry{Label: label, Value: v})
	}
	return ds, rows.Err()
}

// ============================================================
// Styles
// ============================================================

func (r *Repository) SaveStyle(ctx context.Context, sessionID string, style models.StyleConfig) error {
	body, err := json.Marshal(style)
	if err != nil {
		return fmt.Errorf("marshal style: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := touch(ctx, tx, sessionID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO session_styles (session_id, body) VALUES (?, ?)
        ON CONFLICT(session_id) DO UPDATE SET body = excluded.body
    `, sessionID, string(body))
	if err != nil {
		return fmt.Errorf("upsert style: %w", err)
	}

	return tx.Commit()
}

// LoadStyle возвращает последний сохраненный стиль или DefaultStyle, если его нет.
func (r *Repository) LoadStyle(ctx context.Context, sessionID string) (models.StyleConfig, error) {
	var body string
	err := r.db.QueryRowContext(ctx, `SELECT body FROM session_styles WHERE session_id = ?`, sessionID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		ok, err := r.SessionExists(ctx, sessionID)
		if err != nil {
			return models.StyleConfig{}, err
		}
		if !ok {
			return models.StyleConfig{}, ErrNotFound
		}
		return models.DefaultStyle(), nil
	}
	if err != nil {
		return models.StyleConfig{}, err
	}

	var style models.StyleConfig
	if err := json.Unmarshal([]byte(body), &style); err != nil {
		return models.StyleConfig{}, fmt.Errorf("decode style: %w", err)
	}
	return style, nil
}

// ============================================================
// Migrations & helpers
// ============================================================

func (r *Repository) runMigrations(ctx context.Context) error {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	for _, e := range entries {
		data, err := migrations.ReadFile("migrations/" + e.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", e.Name(), err)
		}
	}
	return nil
}

func touch(ctx context.Context, tx *sql.Tx, sessionID string) error {
	res, err := tx.ExecContext(ctx, `UPDATE sessions SET updated_at = datetime('now') WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Open открывает sqlite по DSN. По умолчанию база живет в памяти (vfs=memdb);
// для обычного пути к файлу создается каталог.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = "file:/column3d.db?vfs=memdb"
	}

	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", dsn)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
