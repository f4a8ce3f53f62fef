package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/techagentng/wefixsa/config"
	"github.com/techagentng/wefixsa/db"
	"github.com/techagentng/wefixsa/db/mocks"
	"github.com/techagentng/wefixsa/models"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.Set(c.Now().Add(d))
}

func newTestReportService(t *testing.T) (*reportService, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	svc := newReportService(db.NewReportRepo(db.NewMemoryStore()), &config.Config{}, clock.Now)
	require.NoError(t, svc.LoadReports(context.Background()))
	return svc, clock
}

func reportInput(description, municipality, submittedBy string) *models.ReportInput {
	return &models.ReportInput{
		Title:        description,
		Category:     "Roads and Transport",
		Description:  description,
		Location:     "Corner of Main and Long",
		Municipality: municipality,
		SubmittedBy:  submittedBy,
	}
}

func statusPtr(s models.Status) *models.Status { return &s }

func stringPtr(s string) *string { return &s }

func TestCreateReport(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	report, err := svc.CreateReport(ctx, reportInput("Pothole on Main St", "City of Cape Town", "alice"))
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, models.StatusSubmitted, report.Status)
	assert.False(t, report.CreatedAt.IsZero())
	assert.Equal(t, report.CreatedAt, report.UpdatedAt)
	assert.Equal(t, "alice", report.SubmittedBy)
	assert.Equal(t, "City of Cape Town", report.Municipality)
}

func TestCreateReportAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	ids := map[string]bool{}
	for i := 0; i < 50; i++ {
		report, err := svc.CreateReport(ctx, reportInput("Leak", "Buffalo City", "alice"))
		require.NoError(t, err)
		assert.False(t, ids[report.ID], "duplicate id %s", report.ID)
		ids[report.ID] = true
	}
	assert.Len(t, svc.GetAllReports(ctx), 50)
}

func TestCreateReportRefusesIncompletePayloads(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	_, err := svc.CreateReport(ctx, nil)
	assert.Equal(t, ErrNilReport, err)

	_, err = svc.CreateReport(ctx, reportInput("Leak", "Buffalo City", ""))
	assert.Equal(t, ErrMissingSubmitter, err)

	assert.Empty(t, svc.GetAllReports(ctx))
}

func TestCreateReportKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	svc, clock := newTestReportService(t)

	var want []string
	for _, title := range []string{"first", "second", "third"} {
		report, err := svc.CreateReport(ctx, reportInput(title, "City of Tshwane", "alice"))
		require.NoError(t, err)
		want = append(want, report.ID)
		clock.Advance(time.Minute)
	}

	var got []string
	for _, r := range svc.GetAllReports(ctx) {
		got = append(got, r.ID)
	}
	assert.Equal(t, want, got)

	recent := svc.RecentReports(ctx, 2)
	require.Len(t, recent, 2)
	assert.Equal(t, want[2], recent[0].ID)
	assert.Equal(t, want[1], recent[1].ID)
	assert.Len(t, svc.RecentReports(ctx, 0), 3)

	// the stored order is untouched by the recent view
	assert.Equal(t, want[0], svc.GetAllReports(ctx)[0].ID)
}

func TestGetReportByID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	for _, user := range []string{"alice", "bob", "carol"} {
		_, err := svc.CreateReport(ctx, reportInput("Burst pipe", "eThekwini Metropolitan", user))
		require.NoError(t, err)
	}

	for _, r := range svc.GetAllReports(ctx) {
		got, ok := svc.GetReportByID(ctx, r.ID)
		require.True(t, ok)
		assert.Equal(t, r, *got)
	}

	got, ok := svc.GetReportByID(ctx, "missing")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestReturnedReportsAreCopies(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	created, err := svc.CreateReport(ctx, reportInput("Leak", "Buffalo City", "alice"))
	require.NoError(t, err)
	created.Title = "changed"

	all := svc.GetAllReports(ctx)
	all[0].Status = models.StatusRejected

	got, ok := svc.GetReportByID(ctx, created.ID)
	require.True(t, ok)
	assert.Equal(t, "Leak", got.Title)
	assert.Equal(t, models.StatusSubmitted, got.Status)
}

func TestUpdateReport(t *testing.T) {
	ctx := context.Background()
	svc, clock := newTestReportService(t)

	created, err := svc.CreateReport(ctx, reportInput("Pothole on Main St", "City of Cape Town", "alice"))
	require.NoError(t, err)

	clock.Advance(time.Hour)
	updated, found, err := svc.UpdateReport(ctx, created.ID, &models.ReportPatch{
		Status:    statusPtr(models.StatusResolved),
		AdminNote: stringPtr("Fixed"),
	})
	require.NoError(t, err)
	require.True(t, found)

	got, ok := svc.GetReportByID(ctx, created.ID)
	require.True(t, ok)
	assert.Equal(t, *updated, *got)
	assert.Equal(t, models.StatusResolved, got.Status)
	assert.Equal(t, "Fixed", got.AdminNote)
	assert.Equal(t, "alice", got.SubmittedBy)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt))

	// everything outside the patch is unchanged
	want := *created
	want.Status = models.StatusResolved
	want.AdminNote = "Fixed"
	want.UpdatedAt = got.UpdatedAt
	assert.Equal(t, want, *got)
}

func TestUpdateReportPartialPatch(t *testing.T) {
	ctx := context.Background()
	svc, clock := newTestReportService(t)

	created, err := svc.CreateReport(ctx, reportInput("Streetlight out", "Nelson Mandela Bay", "bob"))
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, _, err = svc.UpdateReport(ctx, created.ID, &models.ReportPatch{AdminNote: stringPtr("  Crew booked  ")})
	require.NoError(t, err)

	got, _ := svc.GetReportByID(ctx, created.ID)
	assert.Equal(t, models.StatusSubmitted, got.Status)
	assert.Equal(t, "Crew booked", got.AdminNote)

	clock.Advance(time.Minute)
	_, _, err = svc.UpdateReport(ctx, created.ID, &models.ReportPatch{Status: statusPtr(models.StatusInProgress)})
	require.NoError(t, err)

	got, _ = svc.GetReportByID(ctx, created.ID)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.Equal(t, "Crew booked", got.AdminNote)
}

func TestUpdateReportAllowsReopening(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	created, err := svc.CreateReport(ctx, reportInput("Leak", "Buffalo City", "alice"))
	require.NoError(t, err)

	for _, status := range []models.Status{models.StatusResolved, models.StatusSubmitted, models.StatusRejected, models.StatusInProgress} {
		got, found, err := svc.UpdateReport(ctx, created.ID, &models.ReportPatch{Status: statusPtr(status)})
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, status, got.Status)
	}
}

func TestUpdateReportNeverMovesUpdatedAtBackwards(t *testing.T) {
	ctx := context.Background()
	svc, clock := newTestReportService(t)

	created, err := svc.CreateReport(ctx, reportInput("Leak", "Buffalo City", "alice"))
	require.NoError(t, err)

	clock.Advance(-time.Hour)
	updated, _, err := svc.UpdateReport(ctx, created.ID, &models.ReportPatch{AdminNote: stringPtr("late")})
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdateReportUnknownID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	_, err := svc.CreateReport(ctx, reportInput("Leak", "Buffalo City", "alice"))
	require.NoError(t, err)
	before := svc.GetAllReports(ctx)

	got, found, err := svc.UpdateReport(ctx, "missing", &models.ReportPatch{Status: statusPtr(models.StatusResolved)})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
	assert.Equal(t, before, svc.GetAllReports(ctx))
}

func TestUpdateReportInvalidStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	created, err := svc.CreateReport(ctx, reportInput("Leak", "Buffalo City", "alice"))
	require.NoError(t, err)

	_, _, err = svc.UpdateReport(ctx, created.ID, &models.ReportPatch{Status: statusPtr("closed")})
	assert.Equal(t, ErrInvalidStatus, err)

	got, _ := svc.GetReportByID(ctx, created.ID)
	assert.Equal(t, models.StatusSubmitted, got.Status)
}

func TestGetReportsByUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	for _, user := range []string{"alice", "bob", "alice"} {
		_, err := svc.CreateReport(ctx, reportInput("Leak", "Buffalo City", user))
		require.NoError(t, err)
	}

	assert.Len(t, svc.GetReportsByUser(ctx, "alice"), 2)
	assert.Len(t, svc.GetReportsByUser(ctx, "bob"), 1)
	assert.Len(t, svc.GetReportsByUser(ctx, "carol"), 0)
	assert.Len(t, svc.GetReportsByUser(ctx, "Alice"), 0)
}

func TestGetReportsByStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	var ids []string
	for i := 0; i < 3; i++ {
		r, err := svc.CreateReport(ctx, reportInput("Leak", "Buffalo City", "alice"))
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}
	_, _, err := svc.UpdateReport(ctx, ids[1], &models.ReportPatch{Status: statusPtr(models.StatusInProgress)})
	require.NoError(t, err)

	assert.Len(t, svc.GetReportsByStatus(ctx, "submitted"), 2)
	assert.Len(t, svc.GetReportsByStatus(ctx, "In Progress"), 1)
	assert.Len(t, svc.GetReportsByStatus(ctx, "in-progress"), 1)
	assert.Len(t, svc.GetReportsByStatus(ctx, "resolved"), 0)
	assert.Empty(t, svc.GetReportsByStatus(ctx, "closed"))
}

func TestSearchReports(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	inputs := []*models.ReportInput{
		reportInput("Pothole on Main St", "City of Cape Town", "alice"),
		reportInput("Burst water pipe", "eThekwini Metropolitan", "bob"),
		{Title: "Overflowing bins", Category: "Waste Management", Description: "Bins not collected",
			Location: "Market square", City: "Gqeberha", Municipality: "Nelson Mandela Bay", SubmittedBy: "carol"},
	}
	for _, in := range inputs {
		_, err := svc.CreateReport(ctx, in)
		require.NoError(t, err)
	}
	all := svc.GetAllReports(ctx)

	assert.ElementsMatch(t, all, svc.SearchReports(ctx, ""))
	assert.ElementsMatch(t, all, svc.SearchReports(ctx, "   "))

	tests := map[string]struct {
		query string
		want  []string
	}{
		"title case-insensitive": {query: "POTHOLE", want: []string{"alice"}},
		"municipality":           {query: "ethekwini", want: []string{"bob"}},
		"city":                   {query: "gqeberha", want: []string{"carol"}},
		"category":               {query: "waste", want: []string{"carol"}},
		"submitter":              {query: "bob", want: []string{"bob"}},
		"shared location":        {query: "main and long", want: []string{"alice", "bob"}},
		"no match":               {query: "volcano", want: nil},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			results := svc.SearchReports(ctx, tc.query)
			var users []string
			for _, r := range results {
				assert.Contains(t, all, r)
				users = append(users, r.SubmittedBy)
			}
			assert.ElementsMatch(t, tc.want, users)
		})
	}
}

func TestFilterReports(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	a, err := svc.CreateReport(ctx, reportInput("Pothole", "City of Cape Town", "alice"))
	require.NoError(t, err)
	_, err = svc.CreateReport(ctx, reportInput("Leak", "City of Cape Town", "bob"))
	require.NoError(t, err)
	_, err = svc.CreateReport(ctx, reportInput("Pothole", "City of Tshwane", "bob"))
	require.NoError(t, err)
	_, _, err = svc.UpdateReport(ctx, a.ID, &models.ReportPatch{Status: statusPtr(models.StatusResolved)})
	require.NoError(t, err)

	assert.Len(t, svc.FilterReports(ctx, models.ReportFilter{}), 3)
	assert.Len(t, svc.FilterReports(ctx, models.ReportFilter{Municipality: "city of cape town"}), 2)
	assert.Len(t, svc.FilterReports(ctx, models.ReportFilter{Query: "pothole", SubmittedBy: "bob"}), 1)
	assert.Len(t, svc.FilterReports(ctx, models.ReportFilter{Status: "Resolved", Municipality: "City of Cape Town"}), 1)
	assert.Len(t, svc.FilterReports(ctx, models.ReportFilter{Category: "Roads and Transport"}), 3)
	assert.Empty(t, svc.FilterReports(ctx, models.ReportFilter{Status: "closed"}))
}

func TestStatusCounts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	a, err := svc.CreateReport(ctx, reportInput("Pothole", "City of Cape Town", "alice"))
	require.NoError(t, err)
	_, err = svc.CreateReport(ctx, reportInput("Leak", "City of Cape Town", "alice"))
	require.NoError(t, err)
	_, err = svc.CreateReport(ctx, reportInput("Leak", "City of Cape Town", "bob"))
	require.NoError(t, err)
	_, _, err = svc.UpdateReport(ctx, a.ID, &models.ReportPatch{Status: statusPtr(models.StatusRejected)})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCounts{Total: 3, Submitted: 2, Rejected: 1}, svc.StatusCounts(ctx, ""))
	assert.Equal(t, models.StatusCounts{Total: 2, Submitted: 1, Rejected: 1}, svc.StatusCounts(ctx, "alice"))
	assert.Equal(t, models.StatusCounts{}, svc.StatusCounts(ctx, "carol"))
}

func TestDeleteReport(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	a, err := svc.CreateReport(ctx, reportInput("Pothole", "City of Cape Town", "alice"))
	require.NoError(t, err)
	b, err := svc.CreateReport(ctx, reportInput("Leak", "City of Cape Town", "bob"))
	require.NoError(t, err)

	deleted, err := svc.DeleteReport(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, ok := svc.GetReportByID(ctx, a.ID)
	assert.False(t, ok)
	_, ok = svc.GetReportByID(ctx, b.ID)
	assert.True(t, ok)

	deleted, err = svc.DeleteReport(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Len(t, svc.GetAllReports(ctx), 1)
}

func TestReportsSurviveRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "restart.db")

	store, err := db.OpenSQLite(ctx, path, &config.Config{})
	require.NoError(t, err)
	first := NewReportService(db.NewReportRepo(store), &config.Config{})
	require.NoError(t, first.LoadReports(ctx))

	a, err := first.CreateReport(ctx, reportInput("Pothole on Main St", "City of Cape Town", "alice"))
	require.NoError(t, err)
	_, err = first.CreateReport(ctx, reportInput("Leak", "Buffalo City", "bob"))
	require.NoError(t, err)
	_, _, err = first.UpdateReport(ctx, a.ID, &models.ReportPatch{Status: statusPtr(models.StatusResolved), AdminNote: stringPtr("Fixed")})
	require.NoError(t, err)
	before := first.GetAllReports(ctx)
	require.NoError(t, store.Close())

	reopened, err := db.OpenSQLite(ctx, path, &config.Config{})
	require.NoError(t, err)
	defer reopened.Close()
	second := NewReportService(db.NewReportRepo(reopened), &config.Config{})
	require.NoError(t, second.LoadReports(ctx))

	assert.Equal(t, before, second.GetAllReports(ctx))
}

func TestLoadReportsFailureStartsEmpty(t *testing.T) {
	ctx := context.Background()

	t.Run("store error", func(t *testing.T) {
		kv := mocks.NewKeyValueStore(t)
		kv.On("Get", mock.Anything, db.ReportsKey).Return("", false, errors.New("storage unavailable"))

		svc := NewReportService(db.NewReportRepo(kv), &config.Config{})
		err := svc.LoadReports(ctx)
		assert.ErrorContains(t, err, "storage unavailable")
		assert.Empty(t, svc.GetAllReports(ctx))
	})

	t.Run("corrupt data", func(t *testing.T) {
		kv := db.NewMemoryStore()
		require.NoError(t, kv.Set(ctx, db.ReportsKey, "[{broken"))

		svc := NewReportService(db.NewReportRepo(kv), &config.Config{})
		err := svc.LoadReports(ctx)
		assert.True(t, errors.Is(err, db.ErrCorruptData))
		assert.Empty(t, svc.GetAllReports(ctx))
	})

	t.Run("no data yet", func(t *testing.T) {
		svc := NewReportService(db.NewReportRepo(db.NewMemoryStore()), &config.Config{})
		assert.NoError(t, svc.LoadReports(ctx))
		assert.Empty(t, svc.GetAllReports(ctx))
	})
}

func TestSaveFailureLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	existing := `[{"id":"r1","title":"Leak","status":"submitted","submittedBy":"alice","createdAt":"2025-01-01T10:00:00Z"}]`

	kv := mocks.NewKeyValueStore(t)
	kv.On("Get", mock.Anything, db.ReportsKey).Return(existing, true, nil)
	kv.On("Set", mock.Anything, db.ReportsKey, mock.Anything).Return(errors.New("disk full"))

	svc := NewReportService(db.NewReportRepo(kv), &config.Config{})
	require.NoError(t, svc.LoadReports(ctx))
	before := svc.GetAllReports(ctx)

	_, err := svc.CreateReport(ctx, reportInput("Pothole", "City of Cape Town", "alice"))
	assert.ErrorContains(t, err, "disk full")

	_, found, err := svc.UpdateReport(ctx, "r1", &models.ReportPatch{Status: statusPtr(models.StatusResolved)})
	assert.True(t, found)
	assert.ErrorContains(t, err, "disk full")

	deleted, err := svc.DeleteReport(ctx, "r1")
	assert.False(t, deleted)
	assert.ErrorContains(t, err, "disk full")

	assert.Equal(t, before, svc.GetAllReports(ctx))
}

func TestSeedReports(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	seed := []models.Report{
		{ID: "r_1", Title: "Leak", Status: models.StatusResolved, SubmittedBy: "alice",
			CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{Title: "Pothole", Status: "", SubmittedBy: "bob"},
		{ID: "r_1", Title: "Duplicate id", SubmittedBy: "carol"},
	}
	n, err := svc.SeedReports(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	all := svc.GetAllReports(ctx)
	require.Len(t, all, 3)
	assert.Equal(t, "r_1", all[0].ID)
	assert.Equal(t, all[0].CreatedAt, all[0].UpdatedAt)
	assert.NotEmpty(t, all[1].ID)
	assert.Equal(t, models.StatusSubmitted, all[1].Status)
	assert.False(t, all[1].CreatedAt.IsZero())
	assert.NotEqual(t, "r_1", all[2].ID)

	n, err = svc.SeedReports(ctx, seed)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, svc.GetAllReports(ctx), 3)
}

func TestConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReportService(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateReport(ctx, reportInput("Leak", "Buffalo City", "alice"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, svc.GetAllReports(ctx), 20)
}

func TestServicesSharingAStoreKeepEachOthersReports(t *testing.T) {
	ctx := context.Background()
	repo := db.NewReportRepo(db.NewMemoryStore())

	device := NewReportService(repo, &config.Config{})
	require.NoError(t, device.LoadReports(ctx))
	api := NewReportService(repo, &config.Config{})
	require.NoError(t, api.LoadReports(ctx))

	fromDevice, err := device.CreateReport(ctx, reportInput("Leak", "Buffalo City", "alice"))
	require.NoError(t, err)

	_, found := api.GetReportByID(ctx, fromDevice.ID)
	assert.True(t, found, "reads see records written by the other service")

	fromAPI, err := api.CreateReport(ctx, reportInput("Pothole", "City of Cape Town", "bob"))
	require.NoError(t, err)
	_, _, err = api.UpdateReport(ctx, fromDevice.ID, &models.ReportPatch{Status: statusPtr(models.StatusInProgress)})
	require.NoError(t, err)

	stored, err := repo.LoadReports(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, fromDevice.ID, stored[0].ID)
	assert.Equal(t, models.StatusInProgress, stored[0].Status)
	assert.Equal(t, fromAPI.ID, stored[1].ID)

	deleted, err := device.DeleteReport(ctx, fromAPI.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Len(t, api.GetAllReports(ctx), 1)
	assert.Equal(t, 1, api.StatusCounts(ctx, "").InProgress)
}

func TestWritesNeedAReadableStore(t *testing.T) {
	ctx := context.Background()

	t.Run("store error", func(t *testing.T) {
		kv := mocks.NewKeyValueStore(t)
		kv.On("Get", mock.Anything, db.ReportsKey).Return("", false, errors.New("storage unavailable"))

		svc := NewReportService(db.NewReportRepo(kv), &config.Config{})
		require.Error(t, svc.LoadReports(ctx))

		_, err := svc.CreateReport(ctx, reportInput("Leak", "Buffalo City", "alice"))
		assert.ErrorContains(t, err, "storage unavailable")
		_, found, err := svc.UpdateReport(ctx, "r1", &models.ReportPatch{})
		assert.False(t, found)
		assert.ErrorContains(t, err, "storage unavailable")
		_, err = svc.DeleteReport(ctx, "r1")
		assert.ErrorContains(t, err, "storage unavailable")
		kv.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("corrupt data is replaced", func(t *testing.T) {
		kv := db.NewMemoryStore()
		require.NoError(t, kv.Set(ctx, db.ReportsKey, "[{broken"))

		svc := NewReportService(db.NewReportRepo(kv), &config.Config{})
		require.Error(t, svc.LoadReports(ctx))

		created, err := svc.CreateReport(ctx, reportInput("Leak", "Buffalo City", "alice"))
		require.NoError(t, err)

		stored, err := db.NewReportRepo(kv).LoadReports(ctx)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, created.ID, stored[0].ID)
	})
}
