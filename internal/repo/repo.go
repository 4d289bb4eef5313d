package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"SiteClass/internal/calc/siteclass"

	"github.com/lib/pq"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Borehole is a saved soil profile. Only the input is stored, never results.
type Borehole struct {
	ID        int             `json:"id"`
	OwnerID   int             `json:"-"`
	Name      string          `json:"name"`
	Location  string          `json:"location"`
	Profile   siteclass.Input `json:"profile"`
	CreatedAt time.Time       `json:"created_at"`
}

type UserRepository interface {
	CreateUser(ctx context.Context, login, email, passwordHash string) (int, error)
	GetByLogin(ctx context.Context, login string) (id int, passwordHash string, err error)
}

type BoreholeRepository interface {
	CreateBorehole(ctx context.Context, b Borehole) (int, error)
	ListBoreholes(ctx context.Context, ownerID int) ([]Borehole, error)
	GetBorehole(ctx context.Context, ownerID, id int) (Borehole, error)
	DeleteBorehole(ctx context.Context, ownerID, id int) error
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to Postgres, requiring TLS unless the DSN says otherwise.
func Open(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", withSSLMode(connStr))
	if err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database not responding: %w", err)
	}
	return db, nil
}

func withSSLMode(connStr string) string {
	if strings.Contains(connStr, "sslmode=") {
		return connStr
	}
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if strings.Contains(connStr, "?") {
			return connStr + "&sslmode=require"
		}
		return connStr + "?sslmode=require"
	}
	return connStr + " sslmode=require"
}

// 23505 is unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id       SERIAL PRIMARY KEY,
	login    TEXT NOT NULL UNIQUE,
	email    TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS boreholes (
	id         SERIAL PRIMARY KEY,
	owner_id   INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	location   TEXT NOT NULL DEFAULT '',
	profile    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS boreholes_owner_idx ON boreholes(owner_id);
`

func (r *PostgresRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, passwordHash string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, passwordHash).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrConflict
	}
	return id, err
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"
	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", ErrNotFound
	}
	if err != nil {
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) CreateBorehole(ctx context.Context, b Borehole) (int, error) {
	profile, err := json.Marshal(b.Profile)
	if err != nil {
		return 0, err
	}
	var id int
	query := "INSERT INTO boreholes (owner_id, name, location, profile) VALUES ($1, $2, $3, $4) RETURNING id"
	err = r.db.QueryRowContext(ctx, query, b.OwnerID, b.Name, b.Location, profile).Scan(&id)
	return id, err
}

func (r *PostgresRepository) ListBoreholes(ctx context.Context, ownerID int) ([]Borehole, error) {
	query := "SELECT id, owner_id, name, location, profile, created_at FROM boreholes WHERE owner_id=$1 ORDER BY id"
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Borehole
	for rows.Next() {
		b, err := scanBorehole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetBorehole(ctx context.Context, ownerID, id int) (Borehole, error) {
	query := "SELECT id, owner_id, name, location, profile, created_at FROM boreholes WHERE owner_id=$1 AND id=$2"
	b, err := scanBorehole(r.db.QueryRowContext(ctx, query, ownerID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Borehole{}, ErrNotFound
	}
	return b, err
}

func (r *PostgresRepository) DeleteBorehole(ctx context.Context, ownerID, id int) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM boreholes WHERE owner_id=$1 AND id=$2", ownerID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBorehole(s scanner) (Borehole, error) {
	var b Borehole
	var profile []byte
	if err := s.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Location, &profile, &b.CreatedAt); err != nil {
		return Borehole{}, err
	}
	if err := json.Unmarshal(profile, &b.Profile); err != nil {
		return Borehole{}, fmt.Errorf("decoding borehole %d profile: %w", b.ID, err)
	}
	return b, nil
}
