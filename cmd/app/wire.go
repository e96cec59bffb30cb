//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/sugarpoints/internal/bootstrap"
	"github.com/yanqian/sugarpoints/internal/domain/coach"
	"github.com/yanqian/sugarpoints/internal/domain/foodlog"
	"github.com/yanqian/sugarpoints/internal/domain/profile"
	"github.com/yanqian/sugarpoints/internal/infra/config"
	httpiface "github.com/yanqian/sugarpoints/internal/interface/http"
	"github.com/yanqian/sugarpoints/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideFoodlogConfig,
		provideProfileConfig,
		provideCoachConfig,
		providePostgresPool,
		provideValkeyClient,
		provideEntryRepository,
		provideProfileRepository,
		provideDayCache,
		provideQuizSessionStore,
		provideTargetProvider,
		provideDayProvider,
		provideChatClient,
		provideTokenCounter,
		profile.NewService,
		foodlog.NewService,
		coach.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
