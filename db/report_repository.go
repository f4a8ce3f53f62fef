package db

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/techagentng/wefixsa/models"
)

// ErrCorruptData is returned when a stored value is not the JSON the app wrote
var ErrCorruptData = errors.New("stored data is corrupt")

// ReportRepository persists the whole report collection as one JSON document
type ReportRepository interface {
	LoadReports(ctx context.Context) ([]models.Report, error)
	SaveReports(ctx context.Context, reports []models.Report) error
}

type reportRepo struct {
	kv KeyValueStore
}

func NewReportRepo(kv KeyValueStore) ReportRepository {
	return &reportRepo{kv: kv}
}

// LoadReports returns an empty collection when nothing has been stored yet
func (r *reportRepo) LoadReports(ctx context.Context) ([]models.Report, error) {
	reports := []models.Report{}
	if err := getJSON(ctx, r.kv, ReportsKey, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepo) SaveReports(ctx context.Context, reports []models.Report) error {
	if reports == nil {
		reports = []models.Report{}
	}
	return setJSON(ctx, r.kv, ReportsKey, reports)
}

func getJSON(ctx context.Context, kv KeyValueStore, key string, v interface{}) error {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return errors.Wrapf(ErrCorruptData, "decode %q: %v", key, err)
	}
	return nil
}

func setJSON(ctx context.Context, kv KeyValueStore, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %q", key)
	}
	return kv.Set(ctx, key, string(b))
}
