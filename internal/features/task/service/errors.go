package service

import "errors"

// Custom errors for the task service.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrSubTaskNotFound  = errors.New("sub-task not found")
	ErrAlreadyCompleted = errors.New("sub-task already completed")
)
