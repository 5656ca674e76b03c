package api

import (
	"net/http"

	"github.com/dori/punch/internal/duration"
	"github.com/dori/punch/internal/model"
	"github.com/dori/punch/internal/tracker"
)

type taskRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Status      *model.Status `json:"status"`
	Duration    *int64        `json:"duration"`
}

type timerResponse struct {
	Message           string      `json:"message"`
	Task              *model.Task `json:"task"`
	Elapsed           int64       `json:"elapsed,omitempty"`
	FormattedDuration string      `json:"formatted_duration"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	in := tracker.NewTask{ProjectID: r.PathValue("projectId")}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Status != nil {
		in.Status = *req.Status
	}

	task, err := s.svc.Tasks.Create(r.Context(), userID(r), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Task created", "task": task})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	var (
		tasks []model.Task
		err   error
	)
	if projectID := r.URL.Query().Get("project_id"); projectID != "" {
		tasks, err = s.svc.Tasks.List(r.Context(), userID(r), projectID)
	} else {
		tasks, err = s.svc.Tasks.ListAll(r.Context(), userID(r))
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.svc.Tasks.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.svc.Tasks.Update(r.Context(), userID(r), r.PathValue("id"), tracker.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Duration:    req.Duration,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Task updated", "task": task})
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Tasks.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

func (s *Server) handleStartTimer(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Tasks.Start(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	msg := "Timer started"
	if !res.Changed {
		msg = "Timer already running"
	}
	writeJSON(w, http.StatusOK, timerResponse{
		Message:           msg,
		Task:              res.Task,
		FormattedDuration: duration.Format(res.Task.Duration),
	})
}

func (s *Server) handleStopTimer(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Tasks.Stop(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	msg := "Timer stopped"
	if !res.Changed {
		msg = "Timer not running"
	}
	writeJSON(w, http.StatusOK, timerResponse{
		Message:           msg,
		Task:              res.Task,
		Elapsed:           res.Elapsed,
		FormattedDuration: duration.Format(res.Task.Duration),
	})
}
