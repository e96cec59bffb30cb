package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/sugarpoints/internal/domain/coach"
	"github.com/yanqian/sugarpoints/internal/domain/foodlog"
	"github.com/yanqian/sugarpoints/internal/domain/profile"
	"github.com/yanqian/sugarpoints/internal/infra/config"
	"github.com/yanqian/sugarpoints/internal/infra/daycache"
	"github.com/yanqian/sugarpoints/internal/infra/entryrepo"
	"github.com/yanqian/sugarpoints/internal/infra/llm/chatgpt"
	"github.com/yanqian/sugarpoints/internal/infra/profilerepo"
	"github.com/yanqian/sugarpoints/internal/infra/quizstore"
	"github.com/yanqian/sugarpoints/pkg/metrics"
)

func provideFoodlogConfig(cfg *config.Config) (foodlog.Config, error) {
	loc, err := cfg.SugarPoints.Location()
	if err != nil {
		return foodlog.Config{}, err
	}
	return foodlog.Config{
		DefaultTarget:   cfg.SugarPoints.DefaultTarget,
		Location:        loc,
		MaxProgressDays: cfg.SugarPoints.MaxProgressDays,
		DayCacheTTL:     cfg.Storage.Valkey.DayCacheTTL,
	}, nil
}

func provideProfileConfig(cfg *config.Config) profile.Config {
	return profile.Config{
		DefaultTarget:  cfg.SugarPoints.DefaultTarget,
		QuizSessionTTL: cfg.Storage.Valkey.QuizSessionTTL,
	}
}

func provideCoachConfig(cfg *config.Config) coach.Config {
	return coach.Config{
		Prompt:          cfg.Coach.Prompt,
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.Temperature,
		MaxPromptTokens: cfg.Coach.MaxPromptTokens,
	}
}

// providePostgresPool returns nil when Postgres is not configured or not reachable.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, func()) {
	dsn := strings.TrimSpace(cfg.Storage.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil, func() {}
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil, func() {}
	}
	if cfg.Storage.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Storage.Postgres.MaxConns
	}
	if cfg.Storage.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Storage.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil, func() {}
	}
	logger.Info("postgres repositories enabled")
	return pool, pool.Close
}

// provideValkeyClient returns nil when Valkey is disabled or not reachable.
func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func()) {
	if !cfg.Storage.Valkey.Enabled {
		return nil, func() {}
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory stores", "error", err)
		return nil, func() {}
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory stores", "error", err)
		return nil, func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory stores", "error", err)
		client.Close()
		return nil, func() {}
	}
	logger.Info("valkey stores enabled", "addr", cfg.Storage.Valkey.Addr)
	return client, client.Close
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Storage.Valkey.Addr, "://") {
		return valkey.ParseURL(cfg.Storage.Valkey.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Storage.Valkey.Addr}}, nil
}

func provideEntryRepository(pool *pgxpool.Pool) foodlog.EntryRepository {
	if pool == nil {
		return entryrepo.NewMemoryRepository()
	}
	return entryrepo.NewPostgresRepository(pool)
}

func provideProfileRepository(pool *pgxpool.Pool) profile.Repository {
	if pool == nil {
		return profilerepo.NewMemoryRepository()
	}
	return profilerepo.NewPostgresRepository(pool)
}

func provideDayCache(cfg *config.Config, client valkey.Client) foodlog.DayCache {
	if client == nil {
		return daycache.NewMemoryCache()
	}
	return daycache.NewValkeyCache(client, cfg.Storage.Valkey.Prefix)
}

func provideQuizSessionStore(cfg *config.Config, client valkey.Client) profile.QuizSessionStore {
	if client == nil {
		return quizstore.NewMemoryStore()
	}
	return quizstore.NewValkeyStore(client, cfg.Storage.Valkey.Prefix)
}

func provideTargetProvider(svc profile.Service) foodlog.TargetProvider {
	return svc
}

func provideDayProvider(svc foodlog.Service) coach.DayProvider {
	return svc
}

// provideChatClient returns a nil interface when no API key is configured so
// the coach falls back to rule based advice.
func provideChatClient(cfg *config.Config, logger *slog.Logger) coach.ChatClient {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Info("llm api key not set, coach uses rule based advice")
		return nil
	}
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	if err != nil {
		logger.Error("failed to create chatgpt client, coach uses rule based advice", "error", err)
		return nil
	}
	return client
}

func provideTokenCounter(cfg *config.Config) coach.TokenCounter {
	return metrics.NewTokenCounter(cfg.LLM.Model)
}
