package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/annuaire-qc/directory/internal/audit"
	"github.com/annuaire-qc/directory/internal/auth"
	"github.com/annuaire-qc/directory/internal/database"
	dbaudit "github.com/annuaire-qc/directory/internal/database/audit"
	"github.com/annuaire-qc/directory/internal/database/businesses"
	"github.com/annuaire-qc/directory/internal/entities"
	"github.com/annuaire-qc/directory/internal/importer"
	"github.com/annuaire-qc/directory/internal/quota"
)

const testAdminToken = "test-admin-token-0123456789abcdef"

// failingStore is a quota store whose backend is unreachable.
type failingStore struct{}

func (failingStore) Increment(context.Context, string) (int, error) {
	return 0, errors.New("counter offline")
}

func (failingStore) Count(context.Context, string) (int, error) {
	return 0, errors.New("counter offline")
}

type fakeImporter struct {
	result *importer.Result
	err    error

	mu    sync.Mutex
	calls []ImportRequest
}

func (f *fakeImporter) ImportPlace(_ context.Context, input, address string, wantMultiple bool) (*importer.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ImportRequest{Input: input, Address: address, Multiple: wantMultiple})
	return f.result, f.err
}

func (f *fakeImporter) Categories() *importer.CategoryTable {
	return importer.DefaultCategories()
}

type loggedImport struct {
	actor string
	mode  string
	code  string
	err   error
}

type fakeAudit struct {
	mu         sync.Mutex
	imports    []loggedImport
	confirms   []error
	overrides  int
	moderation []entities.BusinessStatus
	events     []entities.AuditEvent
	eventsErr  error
	lastType   entities.AuditEventType
	lastEntity string
	lastID     uint
}

func (f *fakeAudit) LogImport(req audit.RequestInfo, _ string, mode string, _ int, code string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imports = append(f.imports, loggedImport{actor: req.Actor, mode: mode, code: code, err: err})
}

func (f *fakeAudit) LogConfirm(_ audit.RequestInfo, _ *entities.Business, _ string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirms = append(f.confirms, err)
}

func (f *fakeAudit) LogQuotaOverride(audit.RequestInfo, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides++
}

func (f *fakeAudit) LogModeration(_ audit.RequestInfo, _ uint, status entities.BusinessStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moderation = append(f.moderation, status)
}

func (f *fakeAudit) GetEvents(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastType = eventType
	if f.eventsErr != nil {
		return nil, 0, f.eventsErr
	}
	return f.events, int64(len(f.events)), nil
}

func (f *fakeAudit) GetEventsForEntity(entityType string, entityID uint) ([]entities.AuditEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastEntity, f.lastID = entityType, entityID
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	var out []entities.AuditEvent
	for _, e := range f.events {
		if e.EntityType == entityType && e.EntityID != nil && *e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAudit) GetEventByID(id uint) (*entities.AuditEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.events {
		if f.events[i].ID == id {
			return &f.events[i], nil
		}
	}
	return nil, dbaudit.ErrEventNotFound
}

type fakeSnapshotter struct {
	saved []any
}

func (f *fakeSnapshotter) SaveJSON(data any) (string, error) {
	f.saved = append(f.saved, data)
	return "snapshot.json", nil
}

type fakeQueue struct {
	enqueued   []backlite.Task
	statuses   map[string]backlite.TaskStatus
	enqueueErr error
}

func (f *fakeQueue) Enqueue(tasks ...backlite.Task) ([]string, error) {
	if f.enqueueErr != nil {
		return nil, f.enqueueErr
	}
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		f.enqueued = append(f.enqueued, task)
		ids = append(ids, fmt.Sprintf("task-%d", len(f.enqueued)))
	}
	return ids, nil
}

func (f *fakeQueue) Status(_ context.Context, taskID string) (backlite.TaskStatus, error) {
	status, ok := f.statuses[taskID]
	if !ok {
		return backlite.TaskStatusNotFound, nil
	}
	return status, nil
}

type fakeMaintenance struct {
	runs int
}

func (f *fakeMaintenance) RunNow() ([]string, error) {
	f.runs++
	return []string{"maintenance-1"}, nil
}

func (f *fakeMaintenance) LastRun() time.Time { return time.Date(2026, 3, 14, 3, 0, 0, 0, time.UTC) }
func (f *fakeMaintenance) NextRun() time.Time { return time.Date(2026, 3, 15, 3, 0, 0, 0, time.UTC) }

// testAPI wires a router over real storage and fake collaborators.
type testAPI struct {
	router      *gin.Engine
	importer    *fakeImporter
	store       *quota.MemoryStore
	tracker     *quota.Tracker
	businesses  *businesses.Repository
	audit       *fakeAudit
	snapshotter *fakeSnapshotter
	queue       *fakeQueue
	maintenance *fakeMaintenance
}

func newTestAPI(t *testing.T, limit int) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewTestDatabase(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	hash, err := auth.HashToken(testAdminToken, bcrypt.MinCost)
	require.NoError(t, err)

	api := &testAPI{
		importer:    &fakeImporter{},
		store:       quota.NewMemoryStore(),
		businesses:  businesses.NewRepository(db.DB),
		audit:       &fakeAudit{},
		snapshotter: &fakeSnapshotter{},
		queue:       &fakeQueue{statuses: map[string]backlite.TaskStatus{}},
		maintenance: &fakeMaintenance{},
	}
	api.tracker = quota.NewTracker(api.store, limit)

	api.router = NewRouter(RouterConfig{
		Importer:       api.importer,
		Quota:          api.tracker,
		Businesses:     api.businesses,
		Database:       db,
		Audit:          api.audit,
		Snapshotter:    api.snapshotter,
		AuthMiddleware: auth.NewMiddleware(hash, nil),
		Tasks:          api.queue,
		Maintenance:    api.maintenance,
		Version:        "test",
	})
	return api
}

// do sends a request; admin adds the bearer token.
func (a *testAPI) do(t *testing.T, method, path string, body any, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+testAdminToken)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func testDraft(placeID, name string) *importer.Draft {
	category := importer.FoodServiceSlug
	return &importer.Draft{
		Name:                  name,
		Address:               "219 Avenue du Mont-Royal Ouest",
		City:                  "Montréal",
		Province:              "Québec",
		Country:               "Canada",
		ExternalPlaceID:       placeID,
		RatingAverage:         4.6,
		RatingCount:           812,
		BusinessStatus:        "OPERATIONAL",
		SuggestedCategorySlug: &category,
	}
}
