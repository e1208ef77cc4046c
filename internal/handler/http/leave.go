package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	UpdateBalance(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListAssigned(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// requestsFilter reads the status and pagination query shared by every listing.
func requestsFilter(r *http.Request) leave.ListRequestsFilter {
	return leave.ListRequestsFilter{
		Status: queryString(r, "status"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}
}

func (l *LeaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	result, err := l.leaveService.GetBalance(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (l *LeaveHandlerImpl) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateBalanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = chi.URLParam(r, "uid")

	result, err := l.leaveService.UpdateBalance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave balance updated", result)
}

func (l *LeaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req leave.SubmitLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := l.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Leave request submitted", result)
}

func (l *LeaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := l.leaveService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (l *LeaveHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	l.list(w, r, l.leaveService.ListMine)
}

func (l *LeaveHandlerImpl) ListAssigned(w http.ResponseWriter, r *http.Request) {
	l.list(w, r, l.leaveService.ListAssigned)
}

func (l *LeaveHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	l.list(w, r, l.leaveService.ListAll)
}

type listLeaveFunc func(ctx context.Context, filter leave.ListRequestsFilter) (leave.ListLeaveRequestsResponse, error)

func (l *LeaveHandlerImpl) list(w http.ResponseWriter, r *http.Request, fetch listLeaveFunc) {
	result, err := fetch(r.Context(), requestsFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Paginated(w, result.Requests, result.Page, result.Limit, result.TotalCount, result.TotalPages)
}

func (l *LeaveHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	var req leave.ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := l.leaveService.Review(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request reviewed", result)
}

func (l *LeaveHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	result, err := l.leaveService.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request cancelled", result)
}
