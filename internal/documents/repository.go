package documents

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-hr/meridian/internal/shared"
)

// RepositoryPort abstracts document persistence.
type RepositoryPort interface {
	Create(ctx context.Context, doc *Document) error
	Get(ctx context.Context, id uuid.UUID) (*Document, error)
	ListVisibleTo(ctx context.Context, userID int64) ([]Document, error)
	ListAll(ctx context.Context) ([]Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const documentColumns = `
	d.id, d.owner_id, COALESCE(u.first_name || ' ' || u.last_name, ''), d.title,
	d.kind, d.file_url, d.visibility, d.created_at
`

func scanDocument(row pgx.Row) (*Document, error) {
	var doc Document
	err := row.Scan(&doc.ID, &doc.OwnerID, &doc.OwnerName, &doc.Title,
		&doc.Kind, &doc.FileURL, &doc.Visibility, &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *Repository) Create(ctx context.Context, doc *Document) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO documents (id, owner_id, title, kind, file_url, visibility)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, doc.ID, doc.OwnerID, doc.Title, doc.Kind, doc.FileURL, doc.Visibility).Scan(&doc.CreatedAt)
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents d
		JOIN users u ON u.id = d.owner_id
		WHERE d.id = $1
	`, id)
	return scanDocument(row)
}

func (r *Repository) ListVisibleTo(ctx context.Context, userID int64) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents d
		JOIN users u ON u.id = d.owner_id
		WHERE d.owner_id = $1 OR d.visibility = 'company'
		ORDER BY d.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

func (r *Repository) ListAll(ctx context.Context) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents d
		JOIN users u ON u.id = d.owner_id
		ORDER BY d.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func collectDocuments(rows pgx.Rows) ([]Document, error) {
	defer rows.Close()
	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}
