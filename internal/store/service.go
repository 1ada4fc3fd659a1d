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

var serviceTableNames = map[types.ServiceType]string{
	types.ServiceTypeBarangay: schemaName + ".barangay_services",
	types.ServiceTypeHealth:   schemaName + ".health_services",
}

var serviceColumns = utils.Columns(types.Service{})

// ServiceRepository reads the two service catalogs. Applications reference
// a catalog entry by (service_type, service_id).
type ServiceRepository struct {
	pool *pgxpool.Pool
}

func NewServiceRepository(pool *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

func serviceTable(serviceType types.ServiceType) (string, error) {
	table, ok := serviceTableNames[serviceType]
	if !ok {
		return "", fmt.Errorf("unknown service type %q", serviceType)
	}
	return table, nil
}

func (r *ServiceRepository) Service(ctx context.Context, serviceType types.ServiceType, serviceID int64) (*types.Service, error) {
	table, err := serviceTable(serviceType)
	if err != nil {
		return nil, err
	}

	query, args, err := psql().
		Select(serviceColumns...).
		From(table).
		Where(sq.Eq{"id": serviceID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate service query: %w", err)
	}

	var service types.Service
	err = pgxscan.Get(ctx, r.pool, &service, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to fetch service: %w", err)
	}
	service.Type = serviceType

	return &service, nil
}

func (r *ServiceRepository) AllServices(ctx context.Context, serviceType types.ServiceType) ([]*types.Service, error) {
	table, err := serviceTable(serviceType)
	if err != nil {
		return nil, err
	}

	query, args, err := psql().
		Select(serviceColumns...).
		From(table).
		Where(sq.Eq{"is_active": true}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate services query: %w", err)
	}

	var services []*types.Service
	err = pgxscan.Select(ctx, r.pool, &services, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch services: %w", err)
	}

	for _, service := range services {
		service.Type = serviceType
	}

	return services, nil
}

// UpsertService keys catalog entries by name so seeding can be re-run.
func (r *ServiceRepository) UpsertService(ctx context.Context, service *types.Service) error {
	table, err := serviceTable(service.Type)
	if err != nil {
		return err
	}

	if service.CreatedAt.IsZero() {
		service.CreatedAt = time.Now()
	}

	serviceMap := utils.ColumnValues(service, "id")
	updateMap := utils.Without(serviceMap, "name", "created_at")

	query, args, err := psql().
		Insert(table).
		SetMap(serviceMap).
		Suffix("ON CONFLICT (name) DO UPDATE SET " + buildUpdateClause(updateMap) + " RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert service query: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&service.ID)
	return utils.WrapOrNil(err, "failed to upsert service")
}
