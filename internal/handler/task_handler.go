package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/taskman/internal/middleware"
	"github.com/hitoshi/taskman/internal/model"
	"github.com/hitoshi/taskman/internal/task"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	// Create は新規タスクを作成する。
	Create(ctx context.Context, userID, text string) (*model.Task, error)
	// List はユーザーのタスク一覧を返す。
	List(ctx context.Context, userID string) ([]*model.Task, error)
	// Get はタスク詳細を返す。
	Get(ctx context.Context, userID, taskID string) (*model.Task, error)
	// Update はタスクの本文・完了状態を更新する。
	Update(ctx context.Context, userID, taskID string, input task.UpdateInput) (*model.Task, error)
	// Delete はタスクを削除し、削除したタスクを返す。
	Delete(ctx context.Context, userID, taskID string) (*model.Task, error)
}

// TaskHandler はタスク管理のHTTPハンドラー。
// 全操作は認証ミドルウェアが解決したユーザーにスコープされる。
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

// createTaskRequest はタスク作成リクエストのボディ。
type createTaskRequest struct {
	Text string `json:"text"`
}

// updateTaskRequest はタスク更新リクエストのボディ。nilフィールドは変更しない。
type updateTaskRequest struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// taskResponse はタスク情報のAPIレスポンス。
type taskResponse struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// taskListResponse はタスク一覧のレスポンス。
type taskListResponse struct {
	Todos []taskResponse `json:"todos"`
}

// taskDetailResponse はタスク単体のレスポンス。
type taskDetailResponse struct {
	Todo taskResponse `json:"todo"`
}

func toTaskResponse(t *model.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Text:        t.Text,
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// CreateTask はタスク作成を処理する。
// POST /todos
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestBodyError())
		return
	}

	created, err := h.service.Create(r.Context(), user.ID, req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(created))
}

// ListTasks は自分のタスク一覧を返す。
// GET /todos
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	tasks, err := h.service.List(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := taskListResponse{Todos: make([]taskResponse, 0, len(tasks))}
	for _, t := range tasks {
		resp.Todos = append(resp.Todos, toTaskResponse(t))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetTask はタスク詳細を返す。他ユーザーのタスクは404になる。
// GET /todos/{id}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	taskID := chi.URLParam(r, "id")

	found, err := h.service.Get(r.Context(), user.ID, taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, taskDetailResponse{Todo: toTaskResponse(found)})
}

// UpdateTask はタスクの本文・完了状態を更新する。
// completedをtrueにすると完了日時が設定され、falseにするとクリアされる。
// PATCH /todos/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	taskID := chi.URLParam(r, "id")

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestBodyError())
		return
	}

	updated, err := h.service.Update(r.Context(), user.ID, taskID, task.UpdateInput{
		Text:      req.Text,
		Completed: req.Completed,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, taskDetailResponse{Todo: toTaskResponse(updated)})
}

// DeleteTask はタスクを削除し、削除したタスクを返す。
// DELETE /todos/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	taskID := chi.URLParam(r, "id")

	deleted, err := h.service.Delete(r.Context(), user.ID, taskID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, taskDetailResponse{Todo: toTaskResponse(deleted)})
}
