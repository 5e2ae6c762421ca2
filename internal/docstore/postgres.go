package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/postline/internal/common"
	"github.com/dmitrijs2005/postline/internal/dbx"
	"github.com/dmitrijs2005/postline/internal/docstore/migrations"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresStore implements Store on a single jsonb records table. It exists
// for deployments without a document database; the collection name is a
// column, the payload is a jsonb document, and the store-assigned timestamp
// is the server_ts column surfaced as FieldServerTime on reads.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens dsn and applies the embedded migrations.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Add(ctx context.Context, collection string, data Record) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encoding record: %w", err)
	}

	id := uuid.NewString()
	query := `INSERT INTO records (collection, id, data) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, collection, id, payload); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return id, nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Record, error) {
	query := `SELECT data, server_ts FROM records WHERE collection = $1 AND id = $2`

	var payload []byte
	var serverTs sql.NullTime
	err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&payload, &serverTs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	return decodeRow(payload, serverTs)
}

func (s *PostgresStore) Query(ctx context.Context, collection string, q Query) ([]Doc, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, data, server_ts FROM records WHERE collection = $1`)

	args := []any{collection}
	for k, v := range q.Filter {
		args = append(args, k, v)
		fmt.Fprintf(&sb, " AND data->>$%d = $%d", len(args)-1, len(args))
	}

	if q.OrderBy != "" {
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		if q.OrderBy == FieldServerTime {
			fmt.Fprintf(&sb, " ORDER BY server_ts %s", dir)
		} else {
			args = append(args, q.OrderBy)
			fmt.Fprintf(&sb, " ORDER BY data->>$%d %s", len(args), dir)
		}
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer rows.Close()

	var result []Doc
	for rows.Next() {
		var id string
		var payload []byte
		var serverTs sql.NullTime
		if err := rows.Scan(&id, &payload, &serverTs); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
		}
		rec, err := decodeRow(payload, serverTs)
		if err != nil {
			return nil, err
		}
		result = append(result, Doc{ID: id, Data: rec})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return result, nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields Record) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `UPDATE records SET data = data || $3::jsonb WHERE collection = $1 AND id = $2`
		res, err := tx.ExecContext(ctx, query, collection, id, payload)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected error: %w", err)
		}
		if n == 0 {
			return common.ErrNotFound
		}
		return nil
	})
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM records WHERE collection = $1 AND id = $2`
	res, err := s.db.ExecContext(ctx, query, collection, id)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context, collection string, filter map[string]string) (int64, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT count(*) FROM records WHERE collection = $1`)

	args := []any{collection}
	for k, v := range filter {
		args = append(args, k, v)
		fmt.Fprintf(&sb, " AND data->>$%d = $%d", len(args)-1, len(args))
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, sb.String(), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return n, nil
}

func (s *PostgresStore) Close(ctx context.Context) error {
	return s.db.Close()
}

func decodeRow(payload []byte, serverTs sql.NullTime) (Record, error) {
	var rec Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSchema, err)
	}
	if serverTs.Valid {
		rec[FieldServerTime] = serverTs.Time.UTC()
	}
	return rec, nil
}
