package models

import "time"

// Difficulty grades a sub-task and fixes its reward bracket.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Valid reports whether d is one of the three known grades.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// SubTask is a reward-bearing unit of work derived from a life task.
// IsCompleted is write-once: once true it never reverts, and the reward is
// credited exactly once.
type SubTask struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty" enums:"EASY,MEDIUM,HARD"`
	Points      int        `json:"points"`
	IsCompleted bool       `json:"is_completed"`
}

// LifeTask is a user goal broken down into an ordered sequence of sub-tasks.
type LifeTask struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	SubTasks  []SubTask `json:"sub_tasks"`
	CreatedAt time.Time `json:"created_at"`
}

// CompletedSubTasks counts the sub-tasks already marked done.
func (t *LifeTask) CompletedSubTasks() int {
	n := 0
	for _, st := range t.SubTasks {
		if st.IsCompleted {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the task, detached from the original's
// sub-task slice.
func (t LifeTask) Clone() LifeTask {
	out := t
	out.SubTasks = make([]SubTask, len(t.SubTasks))
	copy(out.SubTasks, t.SubTasks)
	return out
}

// SubTaskDraft is a generated sub-task proposal before ids are assigned.
type SubTaskDraft struct {
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Points      int        `json:"points"`
}

// TaskCreate is the request body for creating a life task.
type TaskCreate struct {
	Title string `json:"title" binding:"required,max=200"`
}
