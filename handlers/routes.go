package handlers

import (
	"net/http"

	"taskboard/middleware"
	"taskboard/models"
	"taskboard/services"

	"github.com/gorilla/mux"
)

// Services groups what the router dispatches to.
type Services struct {
	Auth          *services.AuthService
	Tasks         *services.TaskService
	Projects      *services.ProjectService
	Members       *services.MemberService
	Notifications *services.NotificationService
}

// NewRouter wires every endpoint. Authentication and role checks wrap each
// handler individually so a method mismatch never falls through to a less
// protected route.
func NewRouter(svc Services, corsOrigin string) http.Handler {
	authHandler := NewAuthHandler(svc.Auth)
	taskHandler := NewTaskHandler(svc.Tasks)
	projectHandler := NewProjectHandler(svc.Projects)
	memberHandler := NewMemberHandler(svc.Members)
	notificationHandler := NewNotificationHandler(svc.Notifications)

	jwtAuth := middleware.JWTAuth(svc.Auth)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	authed := func(h http.HandlerFunc) http.Handler { return jwtAuth(h) }
	admin := func(h http.HandlerFunc) http.Handler { return jwtAuth(adminOnly(h)) }

	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Message: "Route not found", Code: "NOT_FOUND"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Message: "Method Not Allowed", Code: "METHOD_NOT_ALLOWED"})
	})

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.Handle("/auth/me", authed(authHandler.Me)).Methods(http.MethodGet)
	api.Handle("/auth/logout", authed(authHandler.Logout)).Methods(http.MethodPost)

	api.Handle("/tasks", authed(taskHandler.GetTasks)).Methods(http.MethodGet)
	api.Handle("/tasks", admin(taskHandler.CreateTask)).Methods(http.MethodPost)
	api.Handle("/tasks/{id}", admin(taskHandler.UpdateTask)).Methods(http.MethodPut)
	api.Handle("/tasks/{id}", admin(taskHandler.DeleteTask)).Methods(http.MethodDelete)

	api.Handle("/members", authed(memberHandler.GetMembers)).Methods(http.MethodGet)
	api.Handle("/members", admin(memberHandler.CreateMember)).Methods(http.MethodPost)
	api.Handle("/members/{id}", admin(memberHandler.UpdateMember)).Methods(http.MethodPut)
	api.Handle("/members/{id}", admin(memberHandler.DeleteMember)).Methods(http.MethodDelete)

	api.Handle("/projects", authed(projectHandler.GetProjects)).Methods(http.MethodGet)
	api.Handle("/projects", admin(projectHandler.CreateProject)).Methods(http.MethodPost)
	api.Handle("/projects/{id}", authed(projectHandler.GetProject)).Methods(http.MethodGet)
	api.Handle("/projects/{id}", admin(projectHandler.UpdateProject)).Methods(http.MethodPut)
	api.Handle("/projects/{id}", admin(projectHandler.DeleteProject)).Methods(http.MethodDelete)

	api.Handle("/notifications", authed(notificationHandler.GetNotifications)).Methods(http.MethodGet)
	api.Handle("/notifications/{id}/read", authed(notificationHandler.MarkAsRead)).Methods(http.MethodPut)

	var handler http.Handler = r
	handler = middleware.RequestLogger(handler)
	handler = middleware.Recoverer(handler)
	handler = middleware.CORS(corsOrigin)(handler)
	return handler
}
