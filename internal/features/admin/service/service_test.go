package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	farmmodels "youguo-backend/internal/features/farm/models"
	taskmodels "youguo-backend/internal/features/task/models"
	usermodels "youguo-backend/internal/features/user/models"
	"youguo-backend/internal/store"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Snapshot(ctx context.Context) (*store.GlobalData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.GlobalData), args.Error(1)
}

func (m *mockStore) SetStatus(ctx context.Context, userID string, status usermodels.Status) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

func (m *mockStore) SetRole(ctx context.Context, userID string, role usermodels.Role) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *mockStore) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func snapshotFixture() *store.GlobalData {
	return &store.GlobalData{
		Users: []usermodels.UserProfile{
			{ID: "u1", Points: 120},
			{ID: "u2", Points: 40},
		},
		Tasks: []taskmodels.LifeTask{
			{
				ID:     "t1",
				UserID: "u1",
				SubTasks: []taskmodels.SubTask{
					{ID: "s1", IsCompleted: true},
					{ID: "s2", IsCompleted: false},
				},
			},
			{
				ID:       "t2",
				UserID:   "u2",
				SubTasks: []taskmodels.SubTask{{ID: "s3", IsCompleted: true}},
			},
		},
		FarmStates: map[string]farmmodels.FarmState{
			"u1": {Produce: []farmmodels.ProduceItem{{SeedID: "carrot", Quantity: 4}}},
			"u2": {Produce: []farmmodels.ProduceItem{{SeedID: "apple", Quantity: 6}}},
		},
	}
}

func TestSystemStats(t *testing.T) {
	st := new(mockStore)
	st.On("Snapshot", mock.Anything).Return(snapshotFixture(), nil)

	svc := NewAdminService(st)
	stats, err := svc.SystemStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 160, stats.TotalPoints)
	assert.Equal(t, 3, stats.TotalSubTasks)
	assert.Equal(t, 10, stats.TotalProduce)
}

func TestListUsers(t *testing.T) {
	st := new(mockStore)
	st.On("Snapshot", mock.Anything).Return(snapshotFixture(), nil)

	svc := NewAdminService(st)
	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "u1", users[0].User.ID)
	assert.Equal(t, 1, users[0].Stats.TaskCount)
	assert.Equal(t, 1, users[0].Stats.CompletedSubTasks)
	assert.Equal(t, 4, users[0].Stats.ProduceCount)
	assert.Empty(t, users[0].SuspiciousReason)
}

func TestUserStats(t *testing.T) {
	st := new(mockStore)
	st.On("Snapshot", mock.Anything).Return(snapshotFixture(), nil)
	svc := NewAdminService(st)

	t.Run("known user", func(t *testing.T) {
		stats, err := svc.UserStats(context.Background(), "u2")
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TaskCount)
		assert.Equal(t, 1, stats.CompletedSubTasks)
		assert.Equal(t, 6, stats.ProduceCount)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UserStats(context.Background(), "nobody")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestSuspiciousReason(t *testing.T) {
	tests := []struct {
		name      string
		points    int
		completed int
		want      string
	}{
		{"clean account", 120, 5, ""},
		{"extreme balance flagged regardless of tasks", 3500, 50, "極高點數 (溢出)"},
		{"threshold boundary not flagged", 3000, 50, ""},
		{"points with zero completions", 600, 0, "無任務異常獲點"},
		{"same balance with completions passes", 600, 1, ""},
		{"high balance with few completions", 1500, 2, "點數/任務比例失衡"},
		{"high balance with enough completions passes", 1500, 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, suspiciousReason(tt.points, tt.completed))
		})
	}
}

func TestModeration(t *testing.T) {
	t.Run("unknown user maps to not found", func(t *testing.T) {
		st := new(mockStore)
		st.On("SetStatus", mock.Anything, "nobody", usermodels.StatusBanned).Return(store.ErrUserNotFound)
		st.On("SetRole", mock.Anything, "nobody", usermodels.RoleAdmin).Return(store.ErrUserNotFound)

		svc := NewAdminService(st)
		assert.ErrorIs(t, svc.SetStatus(context.Background(), "nobody", usermodels.StatusBanned), ErrUserNotFound)
		assert.ErrorIs(t, svc.SetRole(context.Background(), "nobody", usermodels.RoleAdmin), ErrUserNotFound)
	})

	t.Run("reset delegates to the store", func(t *testing.T) {
		st := new(mockStore)
		st.On("Reset", mock.Anything).Return(nil)

		svc := NewAdminService(st)
		require.NoError(t, svc.Reset(context.Background()))
		st.AssertExpectations(t)
	})
}
