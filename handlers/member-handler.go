package handlers

import (
	"net/http"

	"taskboard/middleware"
	"taskboard/models"
	"taskboard/services"

	"github.com/gorilla/mux"
)

type MemberHandler struct {
	service *services.MemberService
}

func NewMemberHandler(service *services.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

func (h *MemberHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context(), middleware.ClaimsFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var in models.NewMember
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	member, err := h.service.CreateMember(r.Context(), middleware.ClaimsFromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *MemberHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var update models.MemberUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeError(w, r, err)
		return
	}
	member, err := h.service.UpdateMember(r.Context(), middleware.ClaimsFromContext(r.Context()), mux.Vars(r)["id"], update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMember(r.Context(), middleware.ClaimsFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Member deleted"})
}
