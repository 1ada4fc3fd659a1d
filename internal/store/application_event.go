package store

import (
	"barangay/internal/utils"
	"barangay/pkg/types"
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationEventsTableName = schemaName + ".application_events"

var applicationEventsColumns = utils.Columns(types.ApplicationEvent{})

type ApplicationEventRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationEventRepository(pool *pgxpool.Pool) *ApplicationEventRepository {
	return &ApplicationEventRepository{pool: pool}
}

// RecordEvent appends to the audit trail. Events are never updated.
func (r *ApplicationEventRepository) RecordEvent(ctx context.Context, event *types.ApplicationEvent) error {
	event.ID = utils.NanoID()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	query, args, err := psql().
		Insert(applicationEventsTableName).
		SetMap(utils.ColumnValues(event)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert application event query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.WrapOrNil(err, "failed to record application event")
}

// EventsByApplication returns the audit trail oldest first.
func (r *ApplicationEventRepository) EventsByApplication(ctx context.Context, applicationID int64) ([]*types.ApplicationEvent, error) {
	query, args, err := psql().
		Select(applicationEventsColumns...).
		From(applicationEventsTableName).
		Where(sq.Eq{"application_id": applicationID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate application events query: %w", err)
	}

	var events []*types.ApplicationEvent
	err = pgxscan.Select(ctx, r.pool, &events, query, args...)
	if err != nil {
		return nil, utils.WrapOrNil(err, "failed to get application events")
	}

	return events, nil
}
