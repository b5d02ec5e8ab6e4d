package method

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store persists method declarations in SQLite. It is the declaration source
// behind the in-memory registry: the registrar writes through it and the
// registry is (re)populated from it at startup. Parameters are serialized
// into the parameters_json column, one row per method, names unique.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save upserts a declaration by name. A prior row with the same name is
// replaced wholesale, keeping its id and created_at. Returns the stored
// declaration with id and timestamps populated.
func (s *Store) Save(ctx context.Context, d Declaration) (*Declaration, error) {
	paramsJSON, err := EncodeParameters(d.Parameters)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	existing, err := s.GetByName(ctx, d.Name)
	switch {
	case err == nil:
		d.ID = existing.ID
		d.CreatedAt = existing.CreatedAt
		d.UpdatedAt = now
		_, err = s.db.ExecContext(ctx, `
			UPDATE registered_method
			SET description = ?, parameters_json = ?, return_kind = ?,
			    module_path = ?, function_name = ?, updated_at = ?
			WHERE name = ?
		`, d.Description, paramsJSON, string(d.ReturnKind),
			d.Locator.ModulePath, d.Locator.FunctionName, d.UpdatedAt, d.Name)
		if err != nil {
			return nil, fmt.Errorf("update method %q: %w", d.Name, err)
		}
	case errors.Is(err, ErrMethodNotFound):
		d.ID = uuid.NewString()
		d.CreatedAt = now
		d.UpdatedAt = now
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO registered_method (
				id, name, description, parameters_json, return_kind,
				module_path, function_name, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, d.ID, d.Name, d.Description, paramsJSON, string(d.ReturnKind),
			d.Locator.ModulePath, d.Locator.FunctionName, d.CreatedAt, d.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert method %q: %w", d.Name, err)
		}
	default:
		return nil, err
	}

	return &d, nil
}

// GetByName loads one declaration.
func (s *Store) GetByName(ctx context.Context, name string) (*Declaration, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, parameters_json, return_kind,
		       module_path, function_name, created_at, updated_at
		FROM registered_method
		WHERE name = ?
		LIMIT 1
	`, name)

	d, err := scanDeclaration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMethodNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// List returns all stored declarations ordered by name.
func (s *Store) List(ctx context.Context) ([]*Declaration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, parameters_json, return_kind,
		       module_path, function_name, created_at, updated_at
		FROM registered_method
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*Declaration, 0)
	for rows.Next() {
		d, scanErr := scanDeclaration(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a declaration by name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM registered_method WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete method %q: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMethodNotFound
	}
	return nil
}

type declScanner interface {
	Scan(dest ...any) error
}

func scanDeclaration(scan declScanner) (*Declaration, error) {
	var (
		d          Declaration
		paramsJSON string
		returnKind string
	)

	if err := scan.Scan(
		&d.ID,
		&d.Name,
		&d.Description,
		&paramsJSON,
		&returnKind,
		&d.Locator.ModulePath,
		&d.Locator.FunctionName,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	params, err := DecodeParameters(paramsJSON)
	if err != nil {
		return nil, fmt.Errorf("method %q: %w", d.Name, err)
	}
	d.Parameters = params
	d.ReturnKind = Kind(returnKind)

	return &d, nil
}
