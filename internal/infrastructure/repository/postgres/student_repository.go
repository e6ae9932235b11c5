package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/banguela/school-admin/internal/core/domain"
)

type StudentRepository struct {
	db *sql.DB
}

func NewStudentRepository(db *sql.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *StudentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS students (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	score_a DOUBLE PRECISION NOT NULL,
	score_b DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *StudentRepository) Add(ctx context.Context, name string, scoreA, scoreB float64) (domain.Student, error) {
	student := domain.Student{
		Name:      name,
		ScoreA:    scoreA,
		ScoreB:    scoreB,
		CreatedAt: time.Now().UTC(),
	}

	err := r.db.QueryRowContext(ctx, `
INSERT INTO students (name, score_a, score_b, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id
`, student.Name, student.ScoreA, student.ScoreB, student.CreatedAt).Scan(&student.ID)
	if err != nil {
		return domain.Student{}, domain.WrapError(domain.ErrStore, "insert student", err)
	}
	return student, nil
}

func (r *StudentRepository) ListAll(ctx context.Context) ([]domain.Student, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, score_a, score_b, created_at
FROM students
ORDER BY id
`)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStore, "list students", err)
	}
	defer rows.Close()

	students := make([]domain.Student, 0)
	for rows.Next() {
		var s domain.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.ScoreA, &s.ScoreB, &s.CreatedAt); err != nil {
			return nil, domain.WrapError(domain.ErrStore, "scan student", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStore, "iterate students", err)
	}
	return students, nil
}
