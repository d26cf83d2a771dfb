package sync

import (
	"context"

	"github.com/iudanet/rulekeeper/internal/models"
	"github.com/iudanet/rulekeeper/internal/progress"
)

//go:generate moq -out service_mock.go . Service

// Service определяет интерфейс синхронизации локального хранилища с сервером
type Service interface {
	// UpdateGlobal выполняет глобальную синхронизацию: статус, плагины, правила, проекты, модули
	UpdateGlobal(ctx context.Context, pw *progress.Wrapper) (*models.GlobalSyncStatus, error)

	// UpdateModule синхронизирует конфигурацию одного модуля
	UpdateModule(ctx context.Context, moduleKey string, pw *progress.Wrapper) (*models.ModuleSyncStatus, error)
}

type service struct {
	global *GlobalUpdater
	module *ModuleUpdater
}

// NewService creates a sync service writing to dest
func NewService(d Downloader, dest Storage) Service {
	return &service{
		global: NewGlobalUpdater(d, dest),
		module: NewModuleUpdater(d, dest),
	}
}

func (s *service) UpdateGlobal(ctx context.Context, pw *progress.Wrapper) (*models.GlobalSyncStatus, error) {
	return s.global.Update(ctx, pw)
}

func (s *service) UpdateModule(ctx context.Context, moduleKey string, pw *progress.Wrapper) (*models.ModuleSyncStatus, error) {
	return s.module.Update(ctx, moduleKey, pw)
}
