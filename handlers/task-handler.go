package handlers

import (
	"net/http"

	"taskboard/middleware"
	"taskboard/models"
	"taskboard/services"

	"github.com/gorilla/mux"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// GetTasks supports ?status= and ?project= filters.
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, err := services.ParseTaskFilter(query.Get("status"), query.Get("project"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	tasks, err := h.service.ListTasks(r.Context(), middleware.ClaimsFromContext(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var in models.NewTask
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.service.CreateTask(r.Context(), middleware.ClaimsFromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var update models.TaskUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeError(w, r, err)
		return
	}

	task, err := h.service.UpdateTask(r.Context(), middleware.ClaimsFromContext(r.Context()), mux.Vars(r)["id"], update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTask(r.Context(), middleware.ClaimsFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Task deleted"})
}
