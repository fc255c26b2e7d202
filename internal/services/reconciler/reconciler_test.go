package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/content-admin/internal/models"
)

type SyncerMock struct{ mock.Mock }

func (m *SyncerMock) SyncProductStatus(ctx context.Context, userID string, access []models.ProductAccess) error {
	args := m.Called(ctx, userID, access)
	return args.Error(0)
}

type SourceMock struct{ mock.Mock }

func (m *SourceMock) Users(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *SourceMock) Update(users []models.User) {
	m.Called(users)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestScanAndReconcile(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := timePtr(now.Add(-time.Hour))
	future := timePtr(now.Add(time.Hour))

	tests := []struct {
		name              string
		users             []models.User
		wantCorrections   int
		wantActiveAfter   map[string][]bool // userID -> ожидаемые флаги по порядку записей
	}{
		{
			name: "истёкший активный доступ гасится",
			users: []models.User{{
				ID: "u1",
				ProductAccess: []models.ProductAccess{
					{ProductID: "p1", IsActive: true, EndDate: past},
				},
			}},
			wantCorrections: 1,
			wantActiveAfter: map[string][]bool{"u1": {false}},
		},
		{
			name: "доступ без даты окончания бессрочен",
			users: []models.User{{
				ID: "u1",
				ProductAccess: []models.ProductAccess{
					{ProductID: "p1", IsActive: true, EndDate: nil},
				},
			}},
			wantCorrections: 0,
			wantActiveAfter: map[string][]bool{"u1": {true}},
		},
		{
			name: "будущая дата окончания не трогается",
			users: []models.User{{
				ID: "u1",
				ProductAccess: []models.ProductAccess{
					{ProductID: "p1", IsActive: true, EndDate: future},
				},
			}},
			wantCorrections: 0,
			wantActiveAfter: map[string][]bool{"u1": {true}},
		},
		{
			name: "уже неактивная запись не даёт исправления",
			users: []models.User{{
				ID: "u1",
				ProductAccess: []models.ProductAccess{
					{ProductID: "p1", IsActive: false, EndDate: past},
				},
			}},
			wantCorrections: 0,
			wantActiveAfter: map[string][]bool{"u1": {false}},
		},
		{
			name: "смешанные записи у одного пользователя",
			users: []models.User{{
				ID: "u1",
				ProductAccess: []models.ProductAccess{
					{ProductID: "p1", IsActive: true, EndDate: past},
					{ProductID: "p2", IsActive: true, EndDate: future},
					{ProductID: "p3", IsActive: true, EndDate: nil},
				},
			}},
			wantCorrections: 1,
			wantActiveAfter: map[string][]bool{"u1": {false, true, true}},
		},
		{
			name: "несколько пользователей — по исправлению на каждого затронутого",
			users: []models.User{
				{ID: "u1", ProductAccess: []models.ProductAccess{
					{ProductID: "p1", IsActive: true, EndDate: past},
				}},
				{ID: "u2", ProductAccess: []models.ProductAccess{
					{ProductID: "p2", IsActive: true, EndDate: future},
				}},
				{ID: "u3", ProductAccess: []models.ProductAccess{
					{ProductID: "p3", IsActive: true, EndDate: past},
				}},
			},
			wantCorrections: 2,
			wantActiveAfter: map[string][]bool{"u1": {false}, "u2": {true}, "u3": {false}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, corrections := ScanAndReconcile(tt.users, now)

			assert.Len(t, corrections, tt.wantCorrections)
			for _, u := range updated {
				want := tt.wantActiveAfter[u.ID]
				for i, pa := range u.ProductAccess {
					assert.Equal(t, want[i], pa.IsActive,
						"user %s access %s", u.ID, pa.ProductID)
				}
			}
		})
	}
}

func TestScanAndReconcile_DoesNotMutateInput(t *testing.T) {
	now := time.Now()
	past := timePtr(now.Add(-time.Hour))
	users := []models.User{{
		ID: "u1",
		ProductAccess: []models.ProductAccess{
			{ProductID: "p1", IsActive: true, EndDate: past},
		},
	}}

	updated, corrections := ScanAndReconcile(users, now)

	assert.True(t, users[0].ProductAccess[0].IsActive, "вход не должен мутироваться")
	assert.False(t, updated[0].ProductAccess[0].IsActive)
	assert.Len(t, corrections, 1)
}

func TestScanAndReconcile_Idempotent(t *testing.T) {
	now := time.Now()
	past := timePtr(now.Add(-time.Hour))
	users := []models.User{{
		ID: "u1",
		ProductAccess: []models.ProductAccess{
			{ProductID: "p1", IsActive: true, EndDate: past},
			{ProductID: "p2", IsActive: true, EndDate: nil},
		},
	}}

	updated, first := ScanAndReconcile(users, now)
	again, second := ScanAndReconcile(updated, now)

	assert.Len(t, first, 1)
	assert.Empty(t, second, "повторный прогон по собственному результату не даёт исправлений")
	assert.Equal(t, updated, again)
}

func TestScanAndReconcile_CorrectionContents(t *testing.T) {
	now := time.Now()
	past := timePtr(now.Add(-time.Hour))
	users := []models.User{{
		ID:    "u1",
		Email: "user@example.com",
		ProductAccess: []models.ProductAccess{
			{ProductID: "p1", ProductName: "Course", IsActive: true, EndDate: past},
			{ProductID: "p2", IsActive: true, EndDate: nil},
		},
	}}

	_, corrections := ScanAndReconcile(users, now)

	assert.Len(t, corrections, 1)
	c := corrections[0]
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, "user@example.com", c.Email)
	// Access — весь исправленный список, Expired — только погашенные записи.
	assert.Len(t, c.Access, 2)
	assert.Len(t, c.Expired, 1)
	assert.Equal(t, "p1", c.Expired[0].ProductID)
	assert.False(t, c.Expired[0].IsActive)
}

func TestSyncCorrections(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name        string
		corrections []Correction
		setupMock   func(*SyncerMock)
	}{
		{
			name: "по одному запросу на пользователя",
			corrections: []Correction{
				{UserID: "u1", Access: []models.ProductAccess{{ProductID: "p1"}}},
				{UserID: "u2", Access: []models.ProductAccess{{ProductID: "p2"}}},
			},
			setupMock: func(m *SyncerMock) {
				m.On("SyncProductStatus", mock.Anything, "u1", mock.Anything).Return(nil).Once()
				m.On("SyncProductStatus", mock.Anything, "u2", mock.Anything).Return(nil).Once()
			},
		},
		{
			name: "отказ одного пользователя не трогает остальных",
			corrections: []Correction{
				{UserID: "u1", Access: []models.ProductAccess{{ProductID: "p1"}}},
				{UserID: "u2", Access: []models.ProductAccess{{ProductID: "p2"}}},
			},
			setupMock: func(m *SyncerMock) {
				m.On("SyncProductStatus", mock.Anything, "u1", mock.Anything).
					Return(errors.New("backend down")).Once()
				m.On("SyncProductStatus", mock.Anything, "u2", mock.Anything).Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer := new(SyncerMock)
			tt.setupMock(syncer)

			svc := New(nil, syncer, nil, nil, logger, time.Minute)
			svc.SyncCorrections(context.Background(), tt.corrections)

			syncer.AssertExpectations(t)
		})
	}
}

func TestRun_KickTriggersImmediateScan(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	source := new(SourceMock)
	source.On("Users", mock.Anything).Return([]models.User{}, nil)

	syncer := new(SyncerMock)

	// Большой интервал: до тикера дело не дойдёт, сработают только
	// немедленный проход при старте и проход по Kick.
	svc := New(source, syncer, nil, nil, logger, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	svc.Kick()
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	calls := len(source.Calls)
	assert.GreaterOrEqual(t, calls, 2, "ожидались стартовый проход и проход по Kick")
}
