package http

import (
	"net/http"
	"strconv"

	"github.com/kintai-hq/kintai-backend-go/internal/domain/attendance"
	"github.com/kintai-hq/kintai-backend-go/internal/handler/http/middleware"
	"github.com/kintai-hq/kintai-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data, err := h.attendanceService.ClockIn(r.Context(), actor.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked in", data)
}

// ClockOut implements AttendanceHandler. Without a prior clock-in the call
// still succeeds with empty data.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data, err := h.attendanceService.ClockOut(r.Context(), actor.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if data == nil {
		response.SuccessWithMessage(w, "No clock-in recorded today", nil)
		return
	}

	response.SuccessWithMessage(w, "Clocked out", data)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	data, err := h.attendanceService.Today(r.Context(), actor.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, data)
}

// History implements AttendanceHandler. Accepts optional year and month query
// parameters; without them the trailing 30 days are returned.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var filter attendance.HistoryFilter
	if year := r.URL.Query().Get("year"); year != "" {
		filter.Year, _ = strconv.Atoi(year)
	}
	if month := r.URL.Query().Get("month"); month != "" {
		filter.Month, _ = strconv.Atoi(month)
	}

	data, err := h.attendanceService.History(r.Context(), actor.EmployeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, data)
}
