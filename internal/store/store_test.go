package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youguo-backend/internal/catalog"
	farmmodels "youguo-backend/internal/features/farm/models"
	taskmodels "youguo-backend/internal/features/task/models"
	usermodels "youguo-backend/internal/features/user/models"
)

const adminEmail = "admin@example.com"

func newTestStore(t *testing.T) (*Store, *MemoryStorage) {
	t.Helper()
	storage := NewMemoryStorage()
	s, err := New(context.Background(), storage, adminEmail)
	require.NoError(t, err)
	return s, storage
}

func syncTestUser(t *testing.T, s *Store, email string) *usermodels.UserProfile {
	t.Helper()
	user, err := s.SyncUser(context.Background(), usermodels.Identity{
		Subject: "sub-" + email,
		Name:    "Tester",
		Email:   email,
		Picture: "https://example.com/p.png",
	})
	require.NoError(t, err)
	return user
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("empty backend writes fresh aggregate", func(t *testing.T) {
		storage := NewMemoryStorage()
		_, err := New(ctx, storage, adminEmail)
		require.NoError(t, err)

		blob, err := storage.Load(ctx)
		require.NoError(t, err)
		assert.Contains(t, string(blob), `"schema_version":1`)
	})

	t.Run("reloads persisted aggregate", func(t *testing.T) {
		storage := NewMemoryStorage()
		s1, err := New(ctx, storage, adminEmail)
		require.NoError(t, err)
		created := syncTestUser(t, s1, "alice@example.com")

		s2, err := New(ctx, storage, adminEmail)
		require.NoError(t, err)
		got, err := s2.GetUser(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", got.Email)
	})

	t.Run("corrupt blob reinitializes empty", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Save(ctx, []byte("{not json")))

		s, err := New(ctx, storage, adminEmail)
		require.NoError(t, err)
		data, err := s.Snapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, data.Users)

		blob, err := storage.Load(ctx)
		require.NoError(t, err)
		assert.Contains(t, string(blob), `"schema_version":1`)
	})

	t.Run("version mismatch reinitializes empty", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Save(ctx, []byte(`{"schema_version":99,"data":{"users":[{"id":"u1"}]}}`)))

		s, err := New(ctx, storage, adminEmail)
		require.NoError(t, err)
		data, err := s.Snapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, data.Users)
	})
}

func TestSyncUser(t *testing.T) {
	ctx := context.Background()

	t.Run("first sight creates account with starting balance", func(t *testing.T) {
		s, _ := newTestStore(t)
		user := syncTestUser(t, s, "bob@example.com")

		assert.NotEmpty(t, user.ID)
		assert.Equal(t, usermodels.RoleUser, user.Role)
		assert.Equal(t, usermodels.StatusActive, user.Status)
		assert.Equal(t, catalog.StartingPoints, user.Points)
		assert.False(t, user.JoinedAt.IsZero())

		farm, err := s.GetFarmState(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, farm.Plots, catalog.PlotCount)
		history, err := s.GetHarvestHistory(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("admin email gets admin role at creation", func(t *testing.T) {
		s, _ := newTestStore(t)
		user := syncTestUser(t, s, adminEmail)
		assert.Equal(t, usermodels.RoleAdmin, user.Role)
	})

	t.Run("returning identity keeps role status and points", func(t *testing.T) {
		s, _ := newTestStore(t)
		created := syncTestUser(t, s, "carol@example.com")
		require.NoError(t, s.UpdateUserPoints(ctx, created.ID, 777))
		require.NoError(t, s.SetStatus(ctx, created.ID, usermodels.StatusBanned))

		again, err := s.SyncUser(ctx, usermodels.Identity{
			Subject: created.ID,
			Name:    "Carol Renamed",
			Email:   "carol@example.com",
			Picture: "https://example.com/new.png",
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, again.ID)
		assert.Equal(t, "Carol Renamed", again.Name)
		assert.Equal(t, "https://example.com/new.png", again.Picture)
		assert.Equal(t, 777, again.Points)
		assert.Equal(t, usermodels.StatusBanned, again.Status)
	})

	t.Run("demoted admin is not re-escalated on return", func(t *testing.T) {
		s, _ := newTestStore(t)
		created := syncTestUser(t, s, adminEmail)
		require.NoError(t, s.SetRole(ctx, created.ID, usermodels.RoleUser))

		again := syncTestUser(t, s, adminEmail)
		assert.Equal(t, usermodels.RoleUser, again.Role)
	})
}

func TestTaskPersistence(t *testing.T) {
	ctx := context.Background()

	task := func(userID string) taskmodels.LifeTask {
		return taskmodels.LifeTask{
			ID:     "task-1",
			UserID: userID,
			Title:  "學習日語",
			SubTasks: []taskmodels.SubTask{
				{ID: "sub-1", Description: "背五十音", Difficulty: taskmodels.DifficultyEasy, Points: 10},
			},
		}
	}

	t.Run("add and list by owner", func(t *testing.T) {
		s, _ := newTestStore(t)
		user := syncTestUser(t, s, "eve@example.com")
		require.NoError(t, s.AddTask(ctx, task(user.ID)))

		got, err := s.GetTasks(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "學習日語", got[0].Title)

		other, err := s.GetTasks(ctx, "someone-else")
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("update replaces matched task", func(t *testing.T) {
		s, _ := newTestStore(t)
		user := syncTestUser(t, s, "eve@example.com")
		require.NoError(t, s.AddTask(ctx, task(user.ID)))

		updated := task(user.ID)
		updated.SubTasks[0].IsCompleted = true
		require.NoError(t, s.UpdateTask(ctx, user.ID, updated))

		got, err := s.GetTasks(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, got[0].SubTasks[0].IsCompleted)
	})

	t.Run("update of unknown task is a no-op", func(t *testing.T) {
		s, storage := newTestStore(t)
		user := syncTestUser(t, s, "eve@example.com")
		before, err := storage.Load(ctx)
		require.NoError(t, err)

		ghost := task(user.ID)
		ghost.ID = "missing"
		require.NoError(t, s.UpdateTask(ctx, user.ID, ghost))

		after, err := storage.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("returned tasks are copies", func(t *testing.T) {
		s, _ := newTestStore(t)
		user := syncTestUser(t, s, "eve@example.com")
		require.NoError(t, s.AddTask(ctx, task(user.ID)))

		got, err := s.GetTasks(ctx, user.ID)
		require.NoError(t, err)
		got[0].SubTasks[0].IsCompleted = true

		fresh, err := s.GetTasks(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, fresh[0].SubTasks[0].IsCompleted)
	})
}

func TestFarmPersistence(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user gets default empty farm", func(t *testing.T) {
		s, _ := newTestStore(t)
		farm, err := s.GetFarmState(ctx, "nobody")
		require.NoError(t, err)
		assert.Len(t, farm.Plots, catalog.PlotCount)
		assert.Empty(t, farm.Inventory)
	})

	t.Run("save and reload round trip", func(t *testing.T) {
		s, _ := newTestStore(t)
		user := syncTestUser(t, s, "frank@example.com")

		state := farmmodels.NewFarmState()
		state.Inventory = append(state.Inventory, farmmodels.InventoryItem{SeedID: "carrot", Quantity: 3})
		require.NoError(t, s.SaveFarmState(ctx, user.ID, state))

		got, err := s.GetFarmState(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.InventoryQuantity("carrot"))
	})

	t.Run("short plot slice is repaired on read", func(t *testing.T) {
		s, _ := newTestStore(t)
		user := syncTestUser(t, s, "frank@example.com")
		require.NoError(t, s.SaveFarmState(ctx, user.ID, farmmodels.FarmState{Plots: make([]*farmmodels.PlantedCrop, 2)}))

		got, err := s.GetFarmState(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, got.Plots, catalog.PlotCount)
	})
}

func TestHarvestHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("save and patch message", func(t *testing.T) {
		s, _ := newTestStore(t)
		user := syncTestUser(t, s, "grace@example.com")

		history := []farmmodels.HarvestLog{{ID: "log-1", CropID: "carrot", Message: "placeholder"}}
		require.NoError(t, s.SaveHarvestHistory(ctx, user.ID, history))
		require.NoError(t, s.UpdateHarvestMessage(ctx, user.ID, "log-1", "收穫的喜悅"))

		got, err := s.GetHarvestHistory(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "收穫的喜悅", got[0].Message)
	})

	t.Run("patching a missing entry is a no-op", func(t *testing.T) {
		s, _ := newTestStore(t)
		user := syncTestUser(t, s, "grace@example.com")
		require.NoError(t, s.UpdateHarvestMessage(ctx, user.ID, "missing", "x"))

		got, err := s.GetHarvestHistory(ctx, user.ID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestModeration(t *testing.T) {
	ctx := context.Background()

	t.Run("set status and role", func(t *testing.T) {
		s, _ := newTestStore(t)
		user := syncTestUser(t, s, "henry@example.com")

		require.NoError(t, s.SetStatus(ctx, user.ID, usermodels.StatusBanned))
		require.NoError(t, s.SetRole(ctx, user.ID, usermodels.RoleAdmin))

		got, err := s.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, usermodels.StatusBanned, got.Status)
		assert.Equal(t, usermodels.RoleAdmin, got.Role)
	})

	t.Run("unknown user is rejected", func(t *testing.T) {
		s, _ := newTestStore(t)
		assert.ErrorIs(t, s.SetStatus(ctx, "nobody", usermodels.StatusBanned), ErrUserNotFound)
		assert.ErrorIs(t, s.SetRole(ctx, "nobody", usermodels.RoleAdmin), ErrUserNotFound)
		assert.ErrorIs(t, s.UpdateUserPoints(ctx, "nobody", 1), ErrUserNotFound)
		_, err := s.GetUser(ctx, "nobody")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	user := syncTestUser(t, s, "iris@example.com")

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Users, 1)
	snap.Users[0].Points = -1

	got, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.StartingPoints, got.Points)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s, storage := newTestStore(t)
	user := syncTestUser(t, s, "judy@example.com")
	require.NoError(t, s.AddTask(ctx, taskmodels.LifeTask{ID: "t", UserID: user.ID, Title: "x"}))

	require.NoError(t, s.Reset(ctx))

	data, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, data.Users)
	assert.Empty(t, data.Tasks)

	// The empty aggregate is persisted immediately.
	blob, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"users":[]`)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("mutation lands durably in one write", func(t *testing.T) {
		s, storage := newTestStore(t)
		user := syncTestUser(t, s, "leo@example.com")

		err := s.Update(ctx, func(data *GlobalData) error {
			data.UserByID(user.ID).Points += 7
			return nil
		})
		require.NoError(t, err)

		got, err := s.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.StartingPoints+7, got.Points)

		blob, err := storage.Load(ctx)
		require.NoError(t, err)
		assert.Contains(t, string(blob), `"points":107`)
	})

	t.Run("fn error writes nothing", func(t *testing.T) {
		s, storage := newTestStore(t)
		syncTestUser(t, s, "mia@example.com")

		before, err := storage.Load(ctx)
		require.NoError(t, err)

		sentinel := errors.New("refused")
		err = s.Update(ctx, func(*GlobalData) error { return sentinel })
		assert.ErrorIs(t, err, sentinel)

		after, err := storage.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("concurrent read-modify-write keeps every increment", func(t *testing.T) {
		s, _ := newTestStore(t)
		user := syncTestUser(t, s, "nina@example.com")

		const calls = 32
		var wg sync.WaitGroup
		for i := 0; i < calls; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.Update(ctx, func(data *GlobalData) error {
					data.UserByID(user.ID).Points++
					return nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := s.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.StartingPoints+calls, got.Points)
	})
}

func TestEveryMutationPersists(t *testing.T) {
	ctx := context.Background()
	s, storage := newTestStore(t)
	user := syncTestUser(t, s, "kate@example.com")

	before, err := storage.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, s.UpdateUserPoints(ctx, user.ID, 42))

	after, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
	assert.Contains(t, string(after), `"points":42`)
}
