package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/techagentng/wefixsa/config"
	"github.com/techagentng/wefixsa/db"
	"github.com/techagentng/wefixsa/models"
	"github.com/techagentng/wefixsa/services/utils"
)

var (
	ErrNilReport        = errors.New("report payload is missing")
	ErrMissingSubmitter = errors.New("report has no submitter")
	ErrInvalidStatus    = errors.New("invalid report status")
)

// ReportService owns the report collection. Callers get copies, never the stored records.
type ReportService interface {
	LoadReports(ctx context.Context) error
	CreateReport(ctx context.Context, input *models.ReportInput) (*models.Report, error)
	GetAllReports(ctx context.Context) []models.Report
	GetReportByID(ctx context.Context, id string) (*models.Report, bool)
	UpdateReport(ctx context.Context, id string, patch *models.ReportPatch) (*models.Report, bool, error)
	GetReportsByUser(ctx context.Context, username string) []models.Report
	GetReportsByStatus(ctx context.Context, status string) []models.Report
	SearchReports(ctx context.Context, query string) []models.Report
	FilterReports(ctx context.Context, filter models.ReportFilter) []models.Report
	RecentReports(ctx context.Context, limit int) []models.Report
	StatusCounts(ctx context.Context, username string) models.StatusCounts
	DeleteReport(ctx context.Context, id string) (bool, error)
	SeedReports(ctx context.Context, reports []models.Report) (int, error)
}

type reportService struct {
	Config     *config.Config
	reportRepo db.ReportRepository

	// mu serializes reload-modify-save. reports is copy-on-write and never changed in place.
	mu      sync.Mutex
	reports []models.Report
	now     func() time.Time
}

// NewReportService instantiates a ReportService. Call LoadReports before use.
func NewReportService(reportRepo db.ReportRepository, conf *config.Config) ReportService {
	return newReportService(reportRepo, conf, time.Now)
}

func newReportService(reportRepo db.ReportRepository, conf *config.Config, now func() time.Time) *reportService {
	return &reportService{
		Config:     conf,
		reportRepo: reportRepo,
		reports:    []models.Report{},
		now:        now,
	}
}

func (s *reportService) LoadReports(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reload(ctx); err != nil {
		s.reports = []models.Report{}
		zap.S().Errorw("error loading reports, starting empty", "error", err)
		return errors.Wrap(err, "load reports")
	}
	zap.S().Infow("reports loaded", "count", len(s.reports))
	return nil
}

func (s *reportService) CreateReport(ctx context.Context, input *models.ReportInput) (*models.Report, error) {
	if input == nil {
		return nil, ErrNilReport
	}
	if input.SubmittedBy == "" {
		return nil, ErrMissingSubmitter
	}

	now := s.timestamp()
	report := models.Report{
		ID:           uuid.New().String(),
		Title:        input.Title,
		Category:     input.Category,
		Description:  input.Description,
		Location:     input.Location,
		Address:      input.Address,
		City:         input.City,
		Municipality: input.Municipality,
		Status:       models.StatusSubmitted,
		SubmittedBy:  input.SubmittedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
		ImageURL:     input.ImageURL,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reloadForWrite(ctx); err != nil {
		return nil, err
	}
	next := make([]models.Report, len(s.reports), len(s.reports)+1)
	copy(next, s.reports)
	next = append(next, report)
	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}

	zap.S().Infow("report created", "id", report.ID, "submitted_by", report.SubmittedBy)
	return &report, nil
}

func (s *reportService) GetAllReports(ctx context.Context) []models.Report {
	return s.collect(ctx, func(models.Report) bool { return true })
}

func (s *reportService) GetReportByID(ctx context.Context, id string) (*models.Report, bool) {
	reports := s.snapshot(ctx)
	i := indexOf(reports, id)
	if i < 0 {
		return nil, false
	}
	report := reports[i]
	return &report, true
}

func (s *reportService) UpdateReport(ctx context.Context, id string, patch *models.ReportPatch) (*models.Report, bool, error) {
	if patch != nil && patch.Status != nil && !patch.Status.Valid() {
		return nil, false, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reloadForWrite(ctx); err != nil {
		return nil, false, err
	}
	i := indexOf(s.reports, id)
	if i < 0 {
		return nil, false, nil
	}

	updated := s.reports[i]
	if patch != nil {
		if patch.Status != nil {
			updated.Status = *patch.Status
		}
		if patch.AdminNote != nil {
			updated.AdminNote = strings.TrimSpace(*patch.AdminNote)
		}
	}
	updated.UpdatedAt = s.timestamp()
	if updated.UpdatedAt.Before(s.reports[i].UpdatedAt) {
		updated.UpdatedAt = s.reports[i].UpdatedAt
	}

	next := make([]models.Report, len(s.reports))
	copy(next, s.reports)
	next[i] = updated
	if err := s.persist(ctx, next); err != nil {
		return nil, true, err
	}

	zap.S().Infow("report updated", "id", id, "status", updated.Status)
	return &updated, true, nil
}

func (s *reportService) GetReportsByUser(ctx context.Context, username string) []models.Report {
	return s.collect(ctx, func(r models.Report) bool { return r.SubmittedBy == username })
}

// GetReportsByStatus accepts display forms such as "In Progress"; unknown statuses match nothing
func (s *reportService) GetReportsByStatus(ctx context.Context, status string) []models.Report {
	want, ok := models.ParseStatus(status)
	if !ok {
		return []models.Report{}
	}
	return s.collect(ctx, func(r models.Report) bool { return r.Status == want })
}

func (s *reportService) SearchReports(ctx context.Context, query string) []models.Report {
	query = strings.TrimSpace(query)
	return s.collect(ctx, func(r models.Report) bool { return matchesQuery(r, query) })
}

func (s *reportService) FilterReports(ctx context.Context, filter models.ReportFilter) []models.Report {
	query := strings.TrimSpace(filter.Query)
	category := strings.TrimSpace(filter.Category)
	municipality := strings.TrimSpace(filter.Municipality)
	submittedBy := strings.TrimSpace(filter.SubmittedBy)

	var status models.Status
	if strings.TrimSpace(filter.Status) != "" {
		parsed, ok := models.ParseStatus(filter.Status)
		if !ok {
			return []models.Report{}
		}
		status = parsed
	}

	return s.collect(ctx, func(r models.Report) bool {
		switch {
		case status != "" && r.Status != status:
			return false
		case category != "" && !strings.EqualFold(r.Category, category):
			return false
		case municipality != "" && !strings.EqualFold(r.Municipality, municipality):
			return false
		case submittedBy != "" && r.SubmittedBy != submittedBy:
			return false
		}
		return matchesQuery(r, query)
	})
}

// RecentReports returns the newest reports first; limit <= 0 returns all of them
func (s *reportService) RecentReports(ctx context.Context, limit int) []models.Report {
	reports := s.snapshot(ctx)

	n := len(reports)
	if limit > 0 && limit < n {
		n = limit
	}
	recent := make([]models.Report, 0, n)
	for i := len(reports) - 1; i >= 0 && len(recent) < n; i-- {
		recent = append(recent, reports[i])
	}
	return recent
}

func (s *reportService) StatusCounts(ctx context.Context, username string) models.StatusCounts {
	var counts models.StatusCounts
	for _, r := range s.snapshot(ctx) {
		if username == "" || r.SubmittedBy == username {
			counts.Add(r.Status)
		}
	}
	return counts
}

func (s *reportService) DeleteReport(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reloadForWrite(ctx); err != nil {
		return false, err
	}
	i := indexOf(s.reports, id)
	if i < 0 {
		return false, nil
	}

	next := make([]models.Report, 0, len(s.reports)-1)
	next = append(next, s.reports[:i]...)
	next = append(next, s.reports[i+1:]...)
	if err := s.persist(ctx, next); err != nil {
		return false, err
	}

	zap.S().Infow("report deleted", "id", id)
	return true, nil
}

// SeedReports fills an empty collection with reports, completing missing ids, statuses and
// timestamps. A collection that already holds reports is left alone.
func (s *reportService) SeedReports(ctx context.Context, reports []models.Report) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reloadForWrite(ctx); err != nil {
		return 0, err
	}
	if len(s.reports) > 0 || len(reports) == 0 {
		return 0, nil
	}

	now := s.timestamp()
	seen := make(map[string]bool, len(reports))
	next := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if r.ID == "" || seen[r.ID] {
			r.ID = uuid.New().String()
		}
		seen[r.ID] = true
		if !r.Status.Valid() {
			r.Status = models.StatusSubmitted
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		if r.UpdatedAt.Before(r.CreatedAt) {
			r.UpdatedAt = r.CreatedAt
		}
		next = append(next, r)
	}

	if err := s.persist(ctx, next); err != nil {
		return 0, err
	}
	zap.S().Infow("reports seeded", "count", len(next))
	return len(next), nil
}

// persist writes next and makes it the mirror. Callers hold s.mu.
func (s *reportService) persist(ctx context.Context, next []models.Report) error {
	if err := s.reportRepo.SaveReports(ctx, next); err != nil {
		zap.S().Errorw("error saving reports", "error", err)
		return errors.Wrap(err, "save reports")
	}
	s.reports = next
	return nil
}

// reload replaces the mirror with the stored collection so that records written by
// another process sharing the store are kept. Callers hold s.mu.
func (s *reportService) reload(ctx context.Context) error {
	reports, err := s.reportRepo.LoadReports(ctx)
	if err != nil {
		return err
	}
	s.reports = reports
	return nil
}

// reloadForWrite refuses to write over a store it cannot read. Corrupt data is the
// exception: the mirror replaces it on the next save.
func (s *reportService) reloadForWrite(ctx context.Context) error {
	err := s.reload(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrCorruptData):
		zap.S().Warnw("stored reports are unreadable, overwriting with the cached list", "error", err)
		return nil
	default:
		zap.S().Errorw("error reloading reports", "error", err)
		return errors.Wrap(err, "reload reports")
	}
}

// snapshot returns the current collection, falling back to the mirror when the store cannot be read
func (s *reportService) snapshot(ctx context.Context) []models.Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reload(ctx); err != nil {
		zap.S().Warnw("serving cached reports", "error", err)
	}
	return s.reports
}

func (s *reportService) collect(ctx context.Context, keep func(models.Report) bool) []models.Report {
	out := []models.Report{}
	for _, r := range s.snapshot(ctx) {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func indexOf(reports []models.Report, id string) int {
	for i := range reports {
		if reports[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *reportService) timestamp() time.Time {
	return s.now().UTC()
}

func matchesQuery(r models.Report, query string) bool {
	if query == "" {
		return true
	}
	for _, field := range []string{r.Title, r.Description, r.Category, r.Location, r.Address, r.City, r.Municipality, r.SubmittedBy} {
		if utils.ContainsFold(field, query) {
			return true
		}
	}
	return false
}
