package entryrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/sugarpoints/internal/domain/foodlog"
	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
)

// PostgresRepository persists food entries in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const entryColumns = `id, user_id, name, carbs_per_100g, fat_per_100g, protein_per_100g,
		portion_grams, meal_type, sugar_points, sugar_point_blocks, consumed_at`

// Create inserts a new entry row.
func (r *PostgresRepository) Create(ctx context.Context, entry sugarpoints.FoodEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO food_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, entry.ID, entry.UserID, entry.Name,
		entry.Profile.CarbsPer100g, entry.Profile.FatPer100g, entry.Profile.ProteinPer100g,
		entry.PortionGrams, string(entry.MealType), entry.SugarPoints, entry.SugarPointBlocks, entry.Timestamp)
	return err
}

// Update rewrites the entry and its derived fields.
func (r *PostgresRepository) Update(ctx context.Context, entry sugarpoints.FoodEntry) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE food_entries
		SET name = $3, carbs_per_100g = $4, fat_per_100g = $5, protein_per_100g = $6,
			portion_grams = $7, meal_type = $8, sugar_points = $9, sugar_point_blocks = $10,
			consumed_at = $11, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`, entry.ID, entry.UserID, entry.Name,
		entry.Profile.CarbsPer100g, entry.Profile.FatPer100g, entry.Profile.ProteinPer100g,
		entry.PortionGrams, string(entry.MealType), entry.SugarPoints, entry.SugarPointBlocks, entry.Timestamp)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return foodlog.ErrEntryNotFound
	}
	return nil
}

// Delete removes an entry row.
func (r *PostgresRepository) Delete(ctx context.Context, userID, entryID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM food_entries WHERE id = $1 AND user_id = $2`, entryID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return foodlog.ErrEntryNotFound
	}
	return nil
}

// Get fetches an entry by id.
func (r *PostgresRepository) Get(ctx context.Context, userID, entryID string) (sugarpoints.FoodEntry, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM food_entries
		WHERE id = $1 AND user_id = $2
		LIMIT 1
	`, entryID, userID)
	if err != nil {
		return sugarpoints.FoodEntry{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return sugarpoints.FoodEntry{}, false, rows.Err()
	}
	entry, err := scanEntry(rows)
	if err != nil {
		return sugarpoints.FoodEntry{}, false, err
	}
	return entry, true, rows.Err()
}

// ListRange returns entries in [from, to) in chronological order.
func (r *PostgresRepository) ListRange(ctx context.Context, userID string, from, to time.Time) ([]sugarpoints.FoodEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+`
		FROM food_entries
		WHERE user_id = $1 AND consumed_at >= $2 AND consumed_at < $3
		ORDER BY consumed_at ASC, seq ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]sugarpoints.FoodEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (sugarpoints.FoodEntry, error) {
	var (
		entry    sugarpoints.FoodEntry
		meal     string
		consumed time.Time
	)
	if err := row.Scan(
		&entry.ID, &entry.UserID, &entry.Name,
		&entry.Profile.CarbsPer100g, &entry.Profile.FatPer100g, &entry.Profile.ProteinPer100g,
		&entry.PortionGrams, &meal, &entry.SugarPoints, &entry.SugarPointBlocks, &consumed,
	); err != nil {
		return sugarpoints.FoodEntry{}, err
	}
	entry.MealType = sugarpoints.MealType(meal)
	entry.Timestamp = consumed.UTC()
	return entry, nil
}

var _ foodlog.EntryRepository = (*PostgresRepository)(nil)
