package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker/internal/model"
	"github.com/BuzzLyutic/task-tracker/internal/report"
	"github.com/BuzzLyutic/task-tracker/internal/service"
	"github.com/BuzzLyutic/task-tracker/internal/store"
	"github.com/BuzzLyutic/task-tracker/pkg/respond"
)

type TaskHandler struct {
	service    *service.TaskService
	logger     *zap.Logger
	now        func() time.Time
	reportFont string
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
		now:     time.Now,
	}
}

// WithReportFont sets the UTF-8 TrueType font used for PDF exports.
func (h *TaskHandler) WithReportFont(path string) *TaskHandler {
	h.reportFont = path
	return h
}

// Register mounts the task API on r.
func (h *TaskHandler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", h.List)
		r.Post("/tasks", h.Create)
		r.Delete("/tasks", h.Clear)
		r.Get("/tasks/{id}", h.Get)
		r.Patch("/tasks/{id}", h.Update)
		r.Put("/tasks/{id}", h.Update)
		r.Delete("/tasks/{id}", h.Delete)
		r.Get("/stats", h.Stats)
		r.Get("/dashboard", h.Dashboard)
		r.Get("/calendar", h.Calendar)
		r.Get("/reports/export", h.Export)
	})
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {

	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req model.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	task, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%s", task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status, err := model.ParseStatusFilter(q.Get("status"))
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}
	sortBy, err := model.ParseSortOption(q.Get("sort"))
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.service.List(r.Context(), model.TaskFilter{
		Status: status,
		Sort:   sortBy,
		Query:  q.Get("q"),
	})
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	task, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.NoContent(w, r)
}

func (h *TaskHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.NoContent(w, r)
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, stats)
}

func (h *TaskHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, d)
}

// Calendar takes ?month=YYYY-MM and defaults to the current month.
func (h *TaskHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	month := h.now()
	if v := r.URL.Query().Get("month"); v != "" {
		parsed, err := time.Parse("2006-01", v)
		if err != nil {
			respond.Error(w, r, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		month = parsed
	}

	cal, err := h.service.Calendar(r.Context(), month.Year(), month.Month())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, cal)
}

func (h *TaskHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := h.service.Report(r.Context())
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	var opts []report.Option
	if h.reportFont != "" {
		opts = append(opts, report.WithFont(h.reportFont))
	}
	var buf bytes.Buffer
	if err := report.Export(&buf, rep, format, opts...); err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.Attachment(w, r, format.ContentType(), format.Filename(), buf.Bytes())
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrValidation), errors.Is(err, store.ErrInvalidArgument):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
