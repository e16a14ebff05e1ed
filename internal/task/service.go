// Package task はタスク管理のドメインロジックを提供する。
package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/repository"
)

// Service はタスク管理のサービス層。
// 全操作は認証済みユーザーのIDでフィルタされ、他ユーザーのタスクは存在しないものとして扱う。
type Service struct {
	taskRepo repository.TaskRepository
}

// NewService はServiceを生成する。
func NewService(taskRepo repository.TaskRepository) *Service {
	return &Service{taskRepo: taskRepo}
}

// UpdateInput はタスク更新の入力。nilフィールドは変更しない。
type UpdateInput struct {
	Text      *string
	Completed *bool
}

// Create は新規タスクを作成する。本文が空の場合はEMPTY_TASK_TEXTを返す。
func (s *Service) Create(ctx context.Context, userID, text string) (*model.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, model.NewEmptyTaskTextError()
	}

	now := time.Now()
	task := &model.Task{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("タスクの作成に失敗しました: %w", err)
	}

	return task, nil
}

// List はユーザーのタスク一覧を作成日時順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Task, error) {
	tasks, err := s.taskRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("タスク一覧の取得に失敗しました: %w", err)
	}
	return tasks, nil
}

// Get は指定IDのタスクを返す。
// 他ユーザー所有のタスクは存在しないものとしてTASK_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.FindByIDAndUser(ctx, taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(taskID)
	}
	return task, nil
}

// Update はタスクの本文・完了状態を更新する。
// completedをtrueにすると完了日時を現在時刻に設定し、
// falseにする（または指定しない場合に既存がfalseの）と完了日時をクリアする。
func (s *Service) Update(ctx context.Context, userID, taskID string, input UpdateInput) (*model.Task, error) {
	task, err := s.taskRepo.FindByIDAndUser(ctx, taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("タスクの取得に失敗しました: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(taskID)
	}

	if input.Text != nil {
		if strings.TrimSpace(*input.Text) == "" {
			return nil, model.NewEmptyTaskTextError()
		}
		task.Text = *input.Text
	}

	if input.Completed != nil && *input.Completed {
		now := time.Now()
		task.Completed = true
		task.CompletedAt = &now
	} else if input.Completed != nil {
		task.Completed = false
		task.CompletedAt = nil
	}

	task.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("タスクの更新に失敗しました: %w", err)
	}

	return task, nil
}

// Delete は指定IDのタスクを削除し、削除したタスクを返す。
func (s *Service) Delete(ctx context.Context, userID, taskID string) (*model.Task, error) {
	task, err := s.taskRepo.DeleteByIDAndUser(ctx, taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("タスクの削除に失敗しました: %w", err)
	}
	if task == nil {
		return nil, model.NewTaskNotFoundError(taskID)
	}
	return task, nil
}
