package profilerepo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/sugarpoints/internal/domain/profile"
	"github.com/yanqian/sugarpoints/internal/domain/sugarpoints"
)

// PostgresRepository persists profiles in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get loads a profile row. The quiz result is stored as JSONB.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (profile.Profile, bool, error) {
	var (
		p          profile.Profile
		quizResult []byte
		custom     *int32
	)
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, quiz_result, custom_target, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`, userID).Scan(&p.UserID, &quizResult, &custom, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, false, nil
		}
		return profile.Profile{}, false, err
	}
	if len(quizResult) > 0 {
		var result sugarpoints.BodyTypeResult
		if err := json.Unmarshal(quizResult, &result); err != nil {
			return profile.Profile{}, false, err
		}
		p.QuizResult = &result
	}
	if custom != nil {
		target := int(*custom)
		p.CustomTarget = &target
	}
	return p, true, nil
}

// Save upserts the profile row.
func (r *PostgresRepository) Save(ctx context.Context, p profile.Profile) error {
	var quizResult []byte
	if p.QuizResult != nil {
		payload, err := json.Marshal(p.QuizResult)
		if err != nil {
			return err
		}
		quizResult = payload
	}
	var custom *int32
	if p.CustomTarget != nil {
		target := int32(*p.CustomTarget)
		custom = &target
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_profiles (user_id, quiz_result, custom_target, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET quiz_result = EXCLUDED.quiz_result,
			custom_target = EXCLUDED.custom_target,
			updated_at = EXCLUDED.updated_at
	`, p.UserID, quizResult, custom, p.UpdatedAt)
	return err
}

var _ profile.Repository = (*PostgresRepository)(nil)
