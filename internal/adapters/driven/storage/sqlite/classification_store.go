package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
	"github.com/custodia-labs/sniff-cli/internal/core/ports/driven"
)

// classificationStore implements driven.ClassificationStore.
type classificationStore struct {
	store *Store
}

var _ driven.ClassificationStore = (*classificationStore)(nil)

const selectClassification = `
	SELECT id, path, format_id, extension, size, mod_time, probed, classified_at
	FROM classifications`

// Save stores or replaces a classification.
func (s *classificationStore) Save(ctx context.Context, c *domain.Classification) error {
	if c == nil || c.ID == "" {
		return domain.ErrInvalidInput
	}

	probed := c.Probed
	if probed == nil {
		probed = []string{}
	}
	probedJSON, err := json.Marshal(probed)
	if err != nil {
		return fmt.Errorf("marshalling probed formats: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO classifications (id, path, format_id, extension, size, mod_time, probed, classified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			format_id = excluded.format_id,
			extension = excluded.extension,
			size = excluded.size,
			mod_time = excluded.mod_time,
			probed = excluded.probed,
			classified_at = excluded.classified_at
	`, c.ID, c.Path, c.FormatID, c.Extension, c.Size,
		formatNullableTime(c.ModTime), string(probedJSON), c.ClassifiedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving classification: %w", err)
	}
	return nil
}

// Get retrieves a classification by ID.
func (s *classificationStore) Get(ctx context.Context, id string) (*domain.Classification, error) {
	row := s.store.db.QueryRowContext(ctx, selectClassification+" WHERE id = ?", id)
	return scanClassification(row)
}

// List returns classifications newest first.
func (s *classificationStore) List(ctx context.Context, limit int) ([]domain.Classification, error) {
	query := selectClassification + " ORDER BY classified_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying classifications: %w", err)
	}
	defer rows.Close()

	result := []domain.Classification{}
	for rows.Next() {
		c, err := scanClassification(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating classifications: %w", err)
	}
	return result, nil
}

// LatestForPath returns the newest classification of path.
func (s *classificationStore) LatestForPath(ctx context.Context, path string) (*domain.Classification, error) {
	row := s.store.db.QueryRowContext(ctx,
		selectClassification+" WHERE path = ? ORDER BY classified_at DESC, rowid DESC LIMIT 1", path)
	return scanClassification(row)
}

// Prune deletes all but the newest keep classifications.
func (s *classificationStore) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, domain.ErrInvalidInput
	}

	res, err := s.store.db.ExecContext(ctx, `
		DELETE FROM classifications WHERE id NOT IN (
			SELECT id FROM classifications
			ORDER BY classified_at DESC, rowid DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning classifications: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned classifications: %w", err)
	}
	return int(n), nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanClassification(row scanner) (*domain.Classification, error) {
	var (
		c            domain.Classification
		modTime      sql.NullInt64
		probedJSON   string
		classifiedAt int64
	)

	err := row.Scan(&c.ID, &c.Path, &c.FormatID, &c.Extension, &c.Size, &modTime, &probedJSON, &classifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning classification: %w", err)
	}

	if err := json.Unmarshal([]byte(probedJSON), &c.Probed); err != nil {
		return nil, fmt.Errorf("unmarshalling probed formats: %w", err)
	}
	c.ModTime = parseNullableTime(modTime)
	c.ClassifiedAt = time.Unix(0, classifiedAt)

	return &c, nil
}

// formatNullableTime stores a time as Unix nanoseconds, or NULL when zero.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UnixNano()
}

// parseNullableTime returns the zero time for NULL.
func parseNullableTime(n sql.NullInt64) time.Time {
	if !n.Valid {
		return time.Time{}
	}
	return time.Unix(0, n.Int64)
}
