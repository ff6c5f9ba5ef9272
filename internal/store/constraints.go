package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

// InsertConstraint writes a new constraint row. The dialect is stored
// exactly once here; UpdateConstraint never changes it.
func (s *Store) InsertConstraint(ctx context.Context, metamodelID string, c *metamodel.Constraint) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO constraints
		(id, metamodel_id, context_class_id, dialect, name, expression, description, severity, is_valid, error_message, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			COALESCE((SELECT MAX(seq) FROM constraints WHERE metamodel_id = ?), 0) + 1)
	`,
		c.ID,
		metamodelID,
		c.ContextID,
		string(c.Dialect),
		c.Name,
		c.Expression,
		c.Description,
		string(c.Severity),
		boolToInt(c.IsValid),
		c.ErrorMessage,
		metamodelID,
	)
	if err != nil {
		return fmt.Errorf("insert constraint: %w", err)
	}
	return nil
}

// UpdateConstraint rewrites the mutable fields of a constraint row.
// Returns false when no row matched. The dialect column is deliberately
// absent from the statement.
func (s *Store) UpdateConstraint(ctx context.Context, metamodelID string, c *metamodel.Constraint) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE constraints
		SET context_class_id = ?, name = ?, expression = ?, description = ?,
		    severity = ?, is_valid = ?, error_message = ?
		WHERE id = ? AND metamodel_id = ?
	`,
		c.ContextID,
		c.Name,
		c.Expression,
		c.Description,
		string(c.Severity),
		boolToInt(c.IsValid),
		c.ErrorMessage,
		c.ID,
		metamodelID,
	)
	if err != nil {
		return false, fmt.Errorf("update constraint: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update constraint: %w", err)
	}
	return n > 0, nil
}

// DeleteConstraint removes a constraint row, reporting whether it existed.
func (s *Store) DeleteConstraint(ctx context.Context, metamodelID, constraintID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM constraints WHERE id = ? AND metamodel_id = ?
	`, constraintID, metamodelID)
	if err != nil {
		return false, fmt.Errorf("delete constraint: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete constraint: %w", err)
	}
	return n > 0, nil
}

// GetConstraint reads one constraint by id, nil when absent.
func (s *Store) GetConstraint(ctx context.Context, metamodelID, constraintID string) (*metamodel.Constraint, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, context_class_id, dialect, name, expression, description, severity, is_valid, error_message
		FROM constraints
		WHERE id = ? AND metamodel_id = ?
	`, constraintID, metamodelID)

	c, err := scanConstraint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get constraint: %w", err)
	}
	return c, nil
}

// ListConstraints returns all constraints of a metamodel in insertion order.
func (s *Store) ListConstraints(ctx context.Context, metamodelID string) ([]*metamodel.Constraint, error) {
	return s.queryConstraints(ctx, `
		SELECT id, context_class_id, dialect, name, expression, description, severity, is_valid, error_message
		FROM constraints
		WHERE metamodel_id = ?
		ORDER BY seq ASC, id ASC
	`, metamodelID)
}

// ListConstraintsForClass returns the constraints declared directly on a
// context class, in insertion order. Inherited applicability is the
// engine's concern, not the store's.
func (s *Store) ListConstraintsForClass(ctx context.Context, metamodelID, classID string) ([]*metamodel.Constraint, error) {
	return s.queryConstraints(ctx, `
		SELECT id, context_class_id, dialect, name, expression, description, severity, is_valid, error_message
		FROM constraints
		WHERE metamodel_id = ? AND context_class_id = ?
		ORDER BY seq ASC, id ASC
	`, metamodelID, classID)
}

func (s *Store) queryConstraints(ctx context.Context, query string, args ...any) ([]*metamodel.Constraint, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query constraints: %w", err)
	}
	defer rows.Close()

	out := []*metamodel.Constraint{}
	for rows.Next() {
		c, err := scanConstraint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan constraint: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query constraints: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConstraint(row rowScanner) (*metamodel.Constraint, error) {
	var (
		c       metamodel.Constraint
		dialect string
		sev     string
		valid   int
	)
	err := row.Scan(&c.ID, &c.ContextID, &dialect, &c.Name, &c.Expression,
		&c.Description, &sev, &valid, &c.ErrorMessage)
	if err != nil {
		return nil, err
	}
	c.Dialect = metamodel.Dialect(dialect)
	c.Severity = metamodel.Severity(sev)
	c.IsValid = valid != 0
	return &c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
