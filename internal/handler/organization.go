package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goalguard/goalguard/internal/repository"
	"github.com/goalguard/goalguard/internal/service"
)

type OrganizationHandler struct {
	orgService *service.OrganizationService
}

func NewOrganizationHandler(orgService *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.orgService.All()
	if err != nil {
		slog.Error("failed to list organizations", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch organizations")
		return
	}

	respondJSON(w, http.StatusOK, orgs)
}

func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	org, err := h.orgService.ByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrOrganizationNotFound) {
			respondError(w, http.StatusNotFound, "organization not found")
			return
		}
		slog.Error("failed to get organization", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch organization")
		return
	}

	respondJSON(w, http.StatusOK, org)
}
