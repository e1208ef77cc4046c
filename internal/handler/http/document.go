package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DocumentHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListAssigned(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type documentHandlerImpl struct {
	documentService document.DocumentService
}

func NewDocumentHandler(documentService document.DocumentService) DocumentHandler {
	return &documentHandlerImpl{documentService: documentService}
}

func (h *documentHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req document.SubmitDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.documentService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Document request submitted", result)
}

func (h *documentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.documentService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *documentHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.documentService.ListMine)
}

func (h *documentHandlerImpl) ListAssigned(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.documentService.ListAssigned)
}

func (h *documentHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.documentService.ListAll)
}

func (h *documentHandlerImpl) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, document.ListFilter) (document.ListDocumentRequestsResponse, error)) {
	result, err := fetch(r.Context(), requestsFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, result.Requests, result.Page, result.Limit, result.TotalCount, result.TotalPages)
}

func (h *documentHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	var req document.ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.documentService.Review(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Document request reviewed", result)
}

func (h *documentHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	result, err := h.documentService.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Document request cancelled", result)
}
