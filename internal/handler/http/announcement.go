package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/announcement"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AnnouncementHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type announcementHandlerImpl struct {
	announcementService announcement.AnnouncementService
}

func NewAnnouncementHandler(announcementService announcement.AnnouncementService) AnnouncementHandler {
	return &announcementHandlerImpl{announcementService: announcementService}
}

func (h *announcementHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.announcementService.List(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, result.Announcements, result.Page, result.Limit, result.TotalCount, result.TotalPages)
}

func (h *announcementHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req announcement.CreateAnnouncementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.announcementService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Announcement published", result)
}

func (h *announcementHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.announcementService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Announcement deleted", nil)
}
