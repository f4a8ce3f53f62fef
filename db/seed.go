package db

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/techagentng/wefixsa/models"
	"go.uber.org/zap"
)

// InitializeAppData writes empty collections for the keys that do not exist yet
func InitializeAppData(ctx context.Context, kv KeyValueStore) error {
	for _, key := range []string{ReportsKey, CitizensKey} {
		_, ok, err := kv.Get(ctx, key)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if err := kv.Set(ctx, key, "[]"); err != nil {
			return err
		}
		zap.S().Debugw("initialized key", "key", key)
	}
	return nil
}

// ClearAllData removes everything the app stored
func ClearAllData(ctx context.Context, kv KeyValueStore) error {
	if err := kv.Clear(ctx); err != nil {
		return err
	}
	zap.S().Infow("cleared all stored data")
	return nil
}

// LoadSeedFile reads a JSON array of reports, in the same shape the store persists
func LoadSeedFile(path string) ([]models.Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read seed file")
	}
	var reports []models.Report
	if err := json.Unmarshal(b, &reports); err != nil {
		return nil, errors.Wrapf(err, "decode seed file %s", path)
	}
	return reports, nil
}
