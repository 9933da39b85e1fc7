package property_repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"rentnova/internal/domain"
	"rentnova/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `
		SELECT
			property_id, title, price, property_type, bedroom_count,
			address, city, state, country,
			building_amenities, utilities, furnishings, status
		FROM properties
	`

// PropertyRepository читает объявления из Postgres.
type PropertyRepository struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewPropertyRepository(db *pgxpool.Pool, log *slog.Logger) *PropertyRepository {
	return &PropertyRepository{db: db, log: log}
}

// CreateProperty сохраняет объявление и возвращает его ID.
func (r *PropertyRepository) CreateProperty(ctx context.Context, p domain.Property) (uuid.UUID, error) {
	const op = "PropertyRepository.CreateProperty"

	query := `
		INSERT INTO properties (
			title, price, property_type, bedroom_count,
			address, city, state, country,
			building_amenities, utilities, furnishings, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING property_id
	`

	status := p.Status
	if status == domain.PropertyStatusUnspecified {
		status = domain.PropertyStatusAvailable
	}

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		p.Title,
		p.Price,
		p.PropertyType.String(),
		p.BedroomCount,
		p.Address,
		p.City,
		p.State,
		p.Country,
		nonNil(p.BuildingAmenities),
		nonNil(p.Utilities),
		nonNil(p.Furnishings),
		status.String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// GetByID получает объявление по ID.
func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error) {
	const op = "PropertyRepository.GetByID"

	p, err := scanProperty(r.db.QueryRow(ctx, selectColumns+" WHERE property_id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Property{}, fmt.Errorf("%s: %w", op, repository.ErrPropertyNotFound)
		}
		return domain.Property{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// ListProperties возвращает объявления по фильтру в порядке создания.
func (r *PropertyRepository) ListProperties(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	const op = "PropertyRepository.ListProperties"

	query, params := buildListQuery(filter)

	rows, err := r.db.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	properties := make([]domain.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan failed: %w", op, err)
		}
		properties = append(properties, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows error: %w", op, err)
	}

	r.log.Debug("properties loaded", slog.String("op", op), slog.Int("count", len(properties)))

	return properties, nil
}

// buildListQuery собирает SELECT с WHERE по заданным полям фильтра.
func buildListQuery(filter domain.PropertyFilter) (string, []any) {
	var (
		where      []string
		params     []any
		paramCount = 1
	)

	add := func(clause string, value any) {
		where = append(where, fmt.Sprintf(clause, paramCount))
		params = append(params, value)
		paramCount++
	}

	if len(filter.IDs) > 0 {
		add("property_id = ANY($%d)", filter.IDs)
	}
	if filter.Status != nil {
		add("status = $%d", (*filter.Status).String())
	}
	if filter.PropertyType != nil {
		add("property_type = $%d", (*filter.PropertyType).String())
	}
	if filter.MinPrice != nil {
		add("price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("price <= $%d", *filter.MaxPrice)
	}
	if filter.City != nil {
		add("LOWER(city) = LOWER($%d)", *filter.City)
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, property_id"
	query += fmt.Sprintf(" LIMIT $%d", paramCount)
	params = append(params, domain.NormalizePageSize(filter.Limit))

	return query, params
}

func scanProperty(row pgx.Row) (domain.Property, error) {
	var (
		p               domain.Property
		propertyTypeStr string
		statusStr       string
	)
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Price,
		&propertyTypeStr,
		&p.BedroomCount,
		&p.Address,
		&p.City,
		&p.State,
		&p.Country,
		&p.BuildingAmenities,
		&p.Utilities,
		&p.Furnishings,
		&statusStr,
	); err != nil {
		return domain.Property{}, err
	}
	p.PropertyType = domain.PropertyType(propertyTypeStr)
	p.Status = domain.PropertyStatus(statusStr)
	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
