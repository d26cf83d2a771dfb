package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/iudanet/rulekeeper/internal/client/storage"
	"github.com/iudanet/rulekeeper/internal/client/storage/badgerdb"
	"github.com/iudanet/rulekeeper/internal/client/storage/boltdb"
	"github.com/iudanet/rulekeeper/internal/client/storage/fsstore"
	"github.com/iudanet/rulekeeper/internal/config"
)

// Имена файлов бэкендов внутри корня хранилища сервера
const (
	boltFileName  = "storage.db"
	badgerDirName = "badger"
)

// openStore открывает бэкенд хранилища, выбранный в конфигурации
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	root := cfg.ServerStorageRoot()

	// fsstore создает корень; lock-файл синхронизации лежит там же для всех бэкендов
	fs, err := fsstore.New(root)
	if err != nil {
		return nil, err
	}

	switch cfg.Storage.Backend {
	case config.BackendBolt:
		s, err := boltdb.New(ctx, filepath.Join(root, boltFileName))
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendBadger:
		s, err := badgerdb.Open(badgerdb.Config{Logger: logger, Path: filepath.Join(root, badgerDirName)})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendFS:
		return fs, nil
	default:
		return nil, fmt.Errorf("%w: storage.backend %q", config.ErrInvalidConfig, cfg.Storage.Backend)
	}
}
