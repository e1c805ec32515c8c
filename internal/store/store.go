package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hurou927/derivedcol/internal/inventory"
)

// Store persists derived column definitions together with the inventory
// column each one owns.
type Store struct {
	pool           *pgxpool.Pool
	organizationID string
	logger         *slog.Logger
}

// New creates a Store scoped to one organization.
func New(pool *pgxpool.Pool, organizationID string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		pool:           pool,
		organizationID: organizationID,
		logger:         logger,
	}
}

// Save creates def when it has no id and updates it otherwise, replacing its
// parameters. It returns the canonical stored definition. Callers validate
// first; Save does not.
func (s *Store) Save(ctx context.Context, def inventory.Definition) (inventory.Definition, error) {
	if err := errbuilder.WrapIfContextDone(ctx, nil); err != nil {
		return inventory.Definition{}, err
	}

	id := def.ID
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if def.IsNew() {
			id = uuid.New().String()
			return s.create(ctx, tx, id, def.Payload())
		}
		return s.update(ctx, tx, id, def.Payload())
	})
	if err != nil {
		return inventory.Definition{}, fmt.Errorf("saving derived column %q: %w", def.Name, err)
	}

	s.logger.Info("saved derived column",
		"id", id,
		"name", def.Name,
		"created", def.IsNew(),
		"parameters", len(def.Parameters))

	return s.Get(ctx, id)
}

func (s *Store) create(ctx context.Context, tx pgx.Tx, id string, p inventory.Payload) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO derived_column (id, organization_id, name, expression, inventory_type)
		VALUES ($1, $2, $3, $4, $5)`,
		id, s.organizationID, p.Name, p.Expression, p.InventoryType.String())
	if err != nil {
		return fmt.Errorf("inserting derived column: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO inventory_column (id, organization_id, table_name, column_name, derived_column_id)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), s.organizationID, p.InventoryType.TableName(), p.Name, id)
	if err != nil {
		return fmt.Errorf("inserting derived column's column: %w", err)
	}

	return insertParameters(ctx, tx, id, p.Parameters)
}

func (s *Store) update(ctx context.Context, tx pgx.Tx, id string, p inventory.Payload) error {
	tag, err := tx.Exec(ctx, `
		UPDATE derived_column
		SET name = $3, expression = $4, inventory_type = $5
		WHERE id = $1 AND organization_id = $2`,
		id, s.organizationID, p.Name, p.Expression, p.InventoryType.String())
	if err != nil {
		return fmt.Errorf("updating derived column: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(id)
	}

	_, err = tx.Exec(ctx, `
		UPDATE inventory_column
		SET column_name = $2, table_name = $3
		WHERE derived_column_id = $1`,
		id, p.Name, p.InventoryType.TableName())
	if err != nil {
		return fmt.Errorf("updating derived column's column: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM derived_column_parameter WHERE derived_column_id = $1`, id); err != nil {
		return fmt.Errorf("clearing parameters: %w", err)
	}

	return insertParameters(ctx, tx, id, p.Parameters)
}

func insertParameters(ctx context.Context, tx pgx.Tx, id string, params []inventory.Parameter) error {
	query, args := buildParameterInsert(id, params)
	if query == "" {
		return nil
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting parameters: %w", err)
	}
	return nil
}

// Get returns the stored definition with the given id.
func (s *Store) Get(ctx context.Context, id string) (inventory.Definition, error) {
	if err := errbuilder.WrapIfContextDone(ctx, nil); err != nil {
		return inventory.Definition{}, err
	}

	var def inventory.Definition
	var invType string
	err := s.pool.QueryRow(ctx, `
		SELECT id::text, name, expression, inventory_type
		FROM derived_column
		WHERE id = $1 AND organization_id = $2`,
		id, s.organizationID).Scan(&def.ID, &def.Name, &def.Expression, &invType)
	if errors.Is(err, pgx.ErrNoRows) {
		return inventory.Definition{}, notFound(id)
	}
	if err != nil {
		return inventory.Definition{}, fmt.Errorf("reading derived column: %w", err)
	}
	if def.InventoryType, err = inventory.ParseInventoryType(invType); err != nil {
		return inventory.Definition{}, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT parameter_name, source_column_id::text
		FROM derived_column_parameter
		WHERE derived_column_id = $1
		ORDER BY position`, id)
	if err != nil {
		return inventory.Definition{}, fmt.Errorf("reading parameters: %w", err)
	}
	def.Parameters, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (inventory.Parameter, error) {
		var p inventory.Parameter
		err := row.Scan(&p.Name, &p.SourceColumnID)
		return p, err
	})
	if err != nil {
		return inventory.Definition{}, fmt.Errorf("reading parameters: %w", err)
	}

	return def, nil
}

func notFound(id string) error {
	return errbuilder.NotFoundErr(errbuilder.GenericErr(fmt.Sprintf("derived column %s not found", id), nil))
}
