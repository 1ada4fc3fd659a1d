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

const applicationTableName = schemaName + ".applications"

var applicationColumns = utils.Columns(types.Application{})

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

func (r *ApplicationRepository) Application(ctx context.Context, applicationID int64) (*types.Application, error) {
	query, args, err := psql().Select(applicationColumns...).From(applicationTableName).
		Where(sq.Eq{"id": applicationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate application query: %w", err)
	}

	var application = new(types.Application)
	err = pgxscan.Get(ctx, r.pool, application, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}

	return application, nil
}

func (r *ApplicationRepository) ApplicationsByStatus(ctx context.Context, status types.ApplicationStatus) ([]*types.Application, error) {
	builder := psql().Select(applicationColumns...).From(applicationTableName).
		OrderBy("created_at desc")
	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate applications by status query: %w", err)
	}

	var applications = make([]*types.Application, 0)
	err = pgxscan.Select(ctx, r.pool, &applications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applications by status: %w", err)
	}

	return applications, nil
}

func (r *ApplicationRepository) ApplicationsByApplicant(ctx context.Context, applicantID int64) ([]*types.Application, error) {
	query, args, err := psql().Select(applicationColumns...).From(applicationTableName).
		Where(sq.Eq{"applicant_id": applicantID}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate applications by applicant query: %w", err)
	}

	var applications = make([]*types.Application, 0)
	err = pgxscan.Select(ctx, r.pool, &applications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applications by applicant: %w", err)
	}

	return applications, nil
}

func (r *ApplicationRepository) CreateApplication(ctx context.Context, application *types.Application) error {
	now := time.Now()
	application.CreatedAt = now
	application.UpdatedAt = now
	application.Version = 1
	if application.Status == "" {
		application.Status = types.ApplicationStatusPending
	}
	if application.RequirementFiles == nil {
		application.RequirementFiles = []string{}
	}

	applicationMap := utils.ColumnValues(application, "id")

	query, args, err := psql().Insert(applicationTableName).SetMap(applicationMap).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert application query: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&application.ID)
	return utils.WrapOrNil(err, "failed to create application")
}

// UpdateStatus applies update and returns the stored row. A non-zero
// ExpectedVersion makes the write conditional on the version the caller read.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, update *types.StatusUpdate) (*types.Application, error) {
	query, args, err := updateStatusQuery(update)
	if err != nil {
		return nil, fmt.Errorf("failed to generate update status query for application %d: %w", update.ApplicationID, err)
	}

	var application = new(types.Application)
	err = pgxscan.Get(ctx, r.pool, application, query, args...)
	if err == nil {
		return application, nil
	}

	if !pgxscan.NotFound(err) {
		return nil, fmt.Errorf("%w: failed to update application %d: %w", types.ErrPersistence, update.ApplicationID, err)
	}

	if update.ExpectedVersion == 0 {
		return nil, types.ErrApplicationNotFound
	}

	exists, err := r.exists(ctx, update.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrPersistence, err)
	}
	if !exists {
		return nil, types.ErrApplicationNotFound
	}

	return nil, types.ErrStaleApplication
}

func updateStatusQuery(update *types.StatusUpdate) (string, []any, error) {
	builder := psql().Update(applicationTableName).
		Set("status", update.Status).
		Set("remarks", update.Remarks).
		Set("pickup_ready", update.PickupReady).
		Set("updated_at", update.UpdatedAt).
		Set("version", sq.Expr("version + 1"))

	if update.ProcessedDate != nil {
		builder = builder.Set("processed_date", *update.ProcessedDate)
	}

	where := sq.Eq{"id": update.ApplicationID}
	if update.ExpectedVersion > 0 {
		where["version"] = update.ExpectedVersion
	}

	return builder.Where(where).Suffix(returning(applicationColumns)).ToSql()
}

func (r *ApplicationRepository) exists(ctx context.Context, applicationID int64) (bool, error) {
	query, args, err := psql().Select("1").From(applicationTableName).
		Where(sq.Eq{"id": applicationID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to generate application exists query: %w", err)
	}

	var exists bool
	err = r.pool.QueryRow(ctx, query, args...).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check application %d exists: %w", applicationID, err)
	}

	return exists, nil
}
