package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"youguo-backend/internal/catalog"
	"youguo-backend/internal/common/logger"
	"youguo-backend/internal/features/task/models"
	"youguo-backend/internal/store"
)

// Store is the subset of the persistent store the task service needs.
type Store interface {
	GetTasks(ctx context.Context, userID string) ([]models.LifeTask, error)
	AddTask(ctx context.Context, task models.LifeTask) error
	Update(ctx context.Context, fn func(data *store.GlobalData) error) error
}

// TextGenerator produces sub-task drafts for a life-task title.
type TextGenerator interface {
	DecomposeTask(ctx context.Context, title string) ([]models.SubTaskDraft, error)
}

// CompletionResult reports a sub-task completion: the updated task, the
// points earned by this call, and the resulting balance.
type CompletionResult struct {
	Task   models.LifeTask `json:"task"`
	Earned int             `json:"earned"`
	Points int             `json:"points"`
}

type TaskService interface {
	List(ctx context.Context, userID string) ([]models.LifeTask, error)
	Create(ctx context.Context, userID, title string) (*models.LifeTask, error)
	CompleteSubTask(ctx context.Context, userID, taskID, subTaskID string) (*CompletionResult, error)
}

type taskService struct {
	store       Store
	textgen     TextGenerator
	textTimeout time.Duration
}

func NewTaskService(store Store, textgen TextGenerator, textTimeout time.Duration) TaskService {
	return &taskService{
		store:       store,
		textgen:     textgen,
		textTimeout: textTimeout,
	}
}

func (s *taskService) List(ctx context.Context, userID string) ([]models.LifeTask, error) {
	return s.store.GetTasks(ctx, userID)
}

// Create breaks the title into three sub-task drafts via the text-generation
// collaborator and stores the new task. A collaborator failure degrades to
// canned drafts; it never blocks task creation.
func (s *taskService) Create(ctx context.Context, userID, title string) (*models.LifeTask, error) {
	drafts := s.decompose(ctx, title)

	task := models.LifeTask{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		SubTasks:  make([]models.SubTask, 0, len(drafts)),
		CreatedAt: time.Now(),
	}
	for _, d := range drafts {
		task.SubTasks = append(task.SubTasks, models.SubTask{
			ID:          uuid.New().String(),
			Description: d.Description,
			Difficulty:  d.Difficulty,
			Points:      d.Points,
			IsCompleted: false,
		})
	}

	if err := s.store.AddTask(ctx, task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *taskService) decompose(ctx context.Context, title string) []models.SubTaskDraft {
	genCtx, cancel := context.WithTimeout(ctx, s.textTimeout)
	defer cancel()

	drafts, err := s.textgen.DecomposeTask(genCtx, title)
	if err != nil {
		logger.Warn().Err(err).Str("title", title).Msg("task decomposition failed, using canned drafts")
		return fallbackDrafts(title)
	}
	return drafts
}

func fallbackDrafts(title string) []models.SubTaskDraft {
	return []models.SubTaskDraft{
		{Description: fmt.Sprintf("開始「%s」的第一步", title), Difficulty: models.DifficultyEasy, Points: catalog.PointsEasy},
		{Description: fmt.Sprintf("持續執行「%s」的核心內容", title), Difficulty: models.DifficultyMedium, Points: catalog.PointsMedium},
		{Description: fmt.Sprintf("成功達成「%s」的終極目標", title), Difficulty: models.DifficultyHard, Points: catalog.PointsHard},
	}
}

// CompleteSubTask marks a sub-task done and credits its reward exactly once.
// The lookup, the completion check and the point credit all run inside one
// store mutation, so two concurrent calls for the same sub-task cannot both
// earn it. Completing an already-completed sub-task is rejected and earns
// nothing.
func (s *taskService) CompleteSubTask(ctx context.Context, userID, taskID, subTaskID string) (*CompletionResult, error) {
	var result CompletionResult
	err := s.store.Update(ctx, func(data *store.GlobalData) error {
		task := data.TaskByID(userID, taskID)
		if task == nil {
			return ErrTaskNotFound
		}

		var sub *models.SubTask
		for i := range task.SubTasks {
			if task.SubTasks[i].ID == subTaskID {
				sub = &task.SubTasks[i]
				break
			}
		}
		if sub == nil {
			return ErrSubTaskNotFound
		}
		if sub.IsCompleted {
			return ErrAlreadyCompleted
		}

		user := data.UserByID(userID)
		if user == nil {
			return store.ErrUserNotFound
		}

		sub.IsCompleted = true
		user.Points += sub.Points

		result = CompletionResult{
			Task:   task.Clone(),
			Earned: sub.Points,
			Points: user.Points,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
