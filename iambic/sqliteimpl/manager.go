package sqliteimpl

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iambic/iambic"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
create table if not exists posts (
	id         integer primary key autoincrement,
	body       text    not null,
	created_at integer not null
)`

// row keeps created_at as unix nanoseconds so scanning does not depend on
// the driver's time parsing.
type row struct {
	ID        int64  `db:"id"`
	Body      string `db:"body"`
	CreatedAt int64  `db:"created_at"`
}

func (r row) post() iambic.Post {
	return iambic.Post{ID: r.ID, Body: r.Body, CreatedAt: time.Unix(0, r.CreatedAt).UTC()}
}

type SQLiteManager struct {
	db *sqlx.DB
}

// NewSQLiteManager opens (creating if needed) the database at dsn, e.g. a
// file path or ":memory:".
func NewSQLiteManager(ctx context.Context, dsn string) (*SQLiteManager, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// sqlite has a single writer; one connection also keeps ":memory:"
	// databases from being per-connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return &SQLiteManager{db: db}, nil
}

func (m *SQLiteManager) Close() error {
	return m.db.Close()
}

func (m *SQLiteManager) AddPost(ctx context.Context, body string) (iambic.Post, error) {
	created := time.Now().UTC()
	res, err := m.db.ExecContext(ctx,
		`insert into posts (body, created_at) values (?, ?)`, body, created.UnixNano())
	if err != nil {
		return iambic.Post{}, fmt.Errorf("inserting post: %w", iambic.ErrStorage)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return iambic.Post{}, fmt.Errorf("reading post id: %w", iambic.ErrStorage)
	}
	return iambic.Post{ID: id, Body: body, CreatedAt: time.Unix(0, created.UnixNano()).UTC()}, nil
}

func (m *SQLiteManager) GetPost(ctx context.Context, id int64) (iambic.Post, error) {
	var r row
	err := m.db.GetContext(ctx, &r, `select id, body, created_at from posts where id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return iambic.Post{}, iambic.ErrNotFound
	}
	if err != nil {
		return iambic.Post{}, fmt.Errorf("fetching post: %w", iambic.ErrStorage)
	}
	return r.post(), nil
}

func (m *SQLiteManager) ListPosts(ctx context.Context) ([]iambic.Post, error) {
	var rows []row
	if err := m.db.SelectContext(ctx, &rows, `select id, body, created_at from posts order by id`); err != nil {
		return nil, fmt.Errorf("listing posts: %w", iambic.ErrStorage)
	}
	posts := make([]iambic.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.post())
	}
	return posts, nil
}

func (m *SQLiteManager) IsReady(ctx context.Context) bool {
	return m.db.PingContext(ctx) == nil
}
