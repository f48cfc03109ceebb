package plantrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/greenguardian/internal/domain/plant"
)

const plantColumns = `id, name, scientific_name, min_temp_c, max_temp_c, sunlight, water_needs,
	spaces, tags, air_purifying, pet_friendly, height_cm, spread_cm, image_url, created_at, updated_at`

// Schema creates the plants table. seq fixes retrieval order to insertion order.
const Schema = `
CREATE TABLE IF NOT EXISTS plants (
	seq             BIGSERIAL UNIQUE,
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	scientific_name TEXT NOT NULL,
	min_temp_c      DOUBLE PRECISION NOT NULL,
	max_temp_c      DOUBLE PRECISION NOT NULL,
	sunlight        TEXT NOT NULL,
	water_needs     TEXT NOT NULL,
	spaces          TEXT[] NOT NULL DEFAULT '{}',
	tags            TEXT[] NOT NULL DEFAULT '{}',
	air_purifying   BOOLEAN NOT NULL DEFAULT FALSE,
	pet_friendly    BOOLEAN NOT NULL DEFAULT TRUE,
	height_cm       DOUBLE PRECISION,
	spread_cm       DOUBLE PRECISION,
	image_url       TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS plants_spaces_idx ON plants USING GIN (spaces);
`

// PostgresRepository implements plant.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema applies Schema. It is idempotent.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, Schema)
	return err
}

// Find returns matching plants ordered by insertion.
func (r *PostgresRepository) Find(ctx context.Context, filter plant.Filter, limit int) ([]plant.Plant, error) {
	where, args := buildFilter(filter)
	query := "SELECT " + plantColumns + " FROM plants"
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY seq"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]plant.Plant, 0)
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) FindOne(ctx context.Context, id string) (plant.Plant, bool, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+plantColumns+" FROM plants WHERE id = $1", id)
	p, err := scanPlant(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return plant.Plant{}, false, nil
	}
	if err != nil {
		return plant.Plant{}, false, err
	}
	return p, true, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, p plant.Plant) (plant.Plant, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO plants (id, name, scientific_name, min_temp_c, max_temp_c, sunlight, water_needs,
			spaces, tags, air_purifying, pet_friendly, height_cm, spread_cm, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+plantColumns,
		p.ID, p.Name, p.ScientificName, p.MinTempC, p.MaxTempC, string(p.Sunlight), string(p.WaterNeeds),
		spaceStrings(p.Spaces), nonNilTags(p.Tags), p.AirPurifying, p.PetFriendly, p.HeightCm, p.SpreadCm, p.ImageURL,
	)
	stored, err := scanPlant(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return plant.Plant{}, errDuplicateID
		}
		return plant.Plant{}, err
	}
	return stored, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, p plant.Plant) (plant.Plant, bool, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE plants SET
			name = $2, scientific_name = $3, min_temp_c = $4, max_temp_c = $5, sunlight = $6,
			water_needs = $7, spaces = $8, tags = $9, air_purifying = $10, pet_friendly = $11,
			height_cm = $12, spread_cm = $13, image_url = $14, updated_at = NOW()
		WHERE id = $1
		RETURNING `+plantColumns,
		id, p.Name, p.ScientificName, p.MinTempC, p.MaxTempC, string(p.Sunlight), string(p.WaterNeeds),
		spaceStrings(p.Spaces), nonNilTags(p.Tags), p.AirPurifying, p.PetFriendly, p.HeightCm, p.SpreadCm, p.ImageURL,
	)
	stored, err := scanPlant(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return plant.Plant{}, false, nil
	}
	if err != nil {
		return plant.Plant{}, false, err
	}
	return stored, true, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM plants").Scan(&n)
	return n, err
}

// buildFilter mirrors plant.Filter.Matches in SQL.
func buildFilter(filter plant.Filter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if filter.Space != "" {
		args = append(args, string(filter.Space))
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(spaces)", len(args)))
	}
	if len(filter.Tags) > 0 {
		args = append(args, filter.Tags)
		clauses = append(clauses, fmt.Sprintf("tags && $%d::text[]", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(name ILIKE $%d OR scientific_name ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE $%d))",
			n, n, n,
		))
	}
	return strings.Join(clauses, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlant(row rowScanner) (plant.Plant, error) {
	var (
		p          plant.Plant
		sunlight   string
		waterNeeds string
		spaces     []string
	)
	if err := row.Scan(
		&p.ID, &p.Name, &p.ScientificName, &p.MinTempC, &p.MaxTempC, &sunlight, &waterNeeds,
		&spaces, &p.Tags, &p.AirPurifying, &p.PetFriendly, &p.HeightCm, &p.SpreadCm, &p.ImageURL,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return plant.Plant{}, err
	}
	p.Sunlight = plant.Sunlight(sunlight)
	p.WaterNeeds = plant.WaterNeeds(waterNeeds)
	p.Spaces = make([]plant.Space, 0, len(spaces))
	for _, s := range spaces {
		p.Spaces = append(p.Spaces, plant.Space(s))
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func spaceStrings(spaces []plant.Space) []string {
	out := make([]string, 0, len(spaces))
	for _, s := range spaces {
		out = append(out, string(s))
	}
	return out
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

var _ plant.Repository = (*PostgresRepository)(nil)
