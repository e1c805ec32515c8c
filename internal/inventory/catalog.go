package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Load queries the column and derived column catalogs of one organization
// and returns them as a snapshot.
func Load(ctx context.Context, pool *pgxpool.Pool, organizationID string) (*Snapshot, error) {
	if err := errbuilder.WrapIfContextDone(ctx, nil); err != nil {
		return nil, err
	}

	columns, err := queryColumns(ctx, pool, organizationID)
	if err != nil {
		return nil, fmt.Errorf("querying columns: %w", err)
	}

	defs, err := queryDefinitions(ctx, pool, organizationID)
	if err != nil {
		return nil, fmt.Errorf("querying derived columns: %w", err)
	}

	if err := queryParameters(ctx, pool, organizationID, defs); err != nil {
		return nil, fmt.Errorf("querying derived column parameters: %w", err)
	}

	slog.Debug("loaded inventory catalog",
		"organization", organizationID,
		"columns", len(columns),
		"derived_columns", len(defs))

	return NewSnapshot(columns, defs), nil
}

func queryColumns(ctx context.Context, pool *pgxpool.Pool, organizationID string) ([]Column, error) {
	query := `
		SELECT
			c.id::text,
			c.column_name,
			c.table_name,
			c.derived_column_id IS NOT NULL AS is_derived,
			COALESCE(c.derived_column_id::text, '') AS derived_column_id
		FROM inventory_column c
		WHERE c.organization_id = $1
			AND c.table_name IN ('PropertyState', 'TaxLotState')
		ORDER BY c.table_name, c.column_name, c.id
	`

	rows, err := pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var col Column
		var tableName string
		if err := rows.Scan(&col.ID, &col.Name, &tableName, &col.IsDerived, &col.DerivedDefinitionID); err != nil {
			return nil, err
		}
		t, err := ParseInventoryType(tableName)
		if err != nil {
			return nil, err
		}
		col.InventoryType = t
		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func queryDefinitions(ctx context.Context, pool *pgxpool.Pool, organizationID string) ([]Definition, error) {
	query := `
		SELECT
			d.id::text,
			d.name,
			d.expression,
			d.inventory_type
		FROM derived_column d
		WHERE d.organization_id = $1
		ORDER BY d.id
	`

	rows, err := pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}

	defs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Definition, error) {
		var d Definition
		var invType string
		if err := row.Scan(&d.ID, &d.Name, &d.Expression, &invType); err != nil {
			return d, err
		}
		t, err := ParseInventoryType(invType)
		if err != nil {
			return d, fmt.Errorf("derived column %s: %w", d.ID, err)
		}
		d.InventoryType = t
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

func queryParameters(ctx context.Context, pool *pgxpool.Pool, organizationID string, defs []Definition) error {
	query := `
		SELECT
			p.derived_column_id::text,
			p.parameter_name,
			p.source_column_id::text
		FROM derived_column_parameter p
		JOIN derived_column d ON d.id = p.derived_column_id
		WHERE d.organization_id = $1
		ORDER BY p.derived_column_id, p.position
	`

	rows, err := pool.Query(ctx, query, organizationID)
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := make(map[string]*Definition, len(defs))
	for i := range defs {
		byID[defs[i].ID] = &defs[i]
	}

	for rows.Next() {
		var defID string
		var p Parameter
		if err := rows.Scan(&defID, &p.Name, &p.SourceColumnID); err != nil {
			return err
		}
		d, ok := byID[defID]
		if !ok {
			continue
		}
		d.Parameters = append(d.Parameters, p)
	}

	return rows.Err()
}
