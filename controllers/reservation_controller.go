// controllers/reservation_controller.go
package controllers

import (
	"fmt"
	"net/http"
	"time"

	"hotel-reservation/middleware"
	"hotel-reservation/models"
	"hotel-reservation/services"
	"hotel-reservation/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateReservationRequest struct {
	User             *uint  `json:"user"`
	CheckInDate      string `json:"check_in_date" binding:"required"`
	CheckOutDate     string `json:"check_out_date" binding:"required"`
	SelectedRoomType uint   `json:"selected_room_type" binding:"required"`
}

// UpdateDatesRequest fields may be omitted on PATCH; the stored value is kept.
type UpdateDatesRequest struct {
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
}

type UpdateRoomRequest struct {
	AssignedRoom uint `json:"assigned_room" binding:"required"`
}

type ReservationResponse struct {
	ID               uint        `json:"id"`
	User             *uint       `json:"user"`
	CheckInDate      string      `json:"check_in_date"`
	CheckOutDate     string      `json:"check_out_date"`
	AssignedRoom     uint        `json:"assigned_room"`
	RoomType         uint        `json:"room_type"`
	AssignedRoomInfo models.Room `json:"assigned_room_info"`
	Nights           int         `json:"nights"`
	Cost             uint        `json:"cost"`
}

type ReservationPageResponse struct {
	Count    int64                 `json:"count"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
	Results  []ReservationResponse `json:"results"`
}

func toReservationResponse(r models.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:               r.ID,
		User:             r.UserID,
		CheckInDate:      r.CheckIn().Format(services.DateLayout),
		CheckOutDate:     r.CheckOut().Format(services.DateLayout),
		AssignedRoom:     r.AssignedRoomID,
		RoomType:         r.AssignedRoom.RoomTypeID,
		AssignedRoomInfo: r.AssignedRoom,
		Nights:           r.Nights(),
		Cost:             r.Cost(),
	}
}

// ---------------------------
// Controller
// ---------------------------

type ReservationController struct {
	ReservationSvc *services.ReservationService
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{ReservationSvc: svc}
}

// CreateReservation POST /api/reservation
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	current, _ := middleware.CurrentUser(c)
	if current.Role == models.RoleGuest {
		// guests book for themselves only
		if req.User == nil {
			id := current.ID
			req.User = &id
		} else if *req.User != current.ID {
			forbidden(c)
			return
		}
	}

	checkIn, err := services.ParseDate("check_in_date", req.CheckInDate)
	if err != nil {
		writeError(c, err, "")
		return
	}
	checkOut, err := services.ParseDate("check_out_date", req.CheckOutDate)
	if err != nil {
		writeError(c, err, "")
		return
	}

	res, err := rc.ReservationSvc.Create(c.Request.Context(), services.CreateReservationInput{
		UserID:     req.User,
		RoomTypeID: req.SelectedRoomType,
		Stay:       services.Stay{CheckIn: checkIn, CheckOut: checkOut},
	})
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, toReservationResponse(*res))
}

func parseReservationFilter(c *gin.Context) (services.ReservationFilter, error) {
	var f services.ReservationFilter
	if raw := c.Query("start_date"); raw != "" {
		t, err := services.ParseDate("start_date", raw)
		if err != nil {
			return f, err
		}
		f.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := services.ParseDate("end_date", raw)
		if err != nil {
			return f, err
		}
		f.EndDate = &t
	}
	var ok bool
	if f.Page, ok = utils.QueryInt(c, "page", 1); !ok {
		return f, &services.ValidationError{Code: "error.invalidPage", Message: "page must be a number"}
	}
	if f.PageSize, ok = utils.QueryInt(c, "page_size", services.DefaultPageSize); !ok {
		return f, &services.ValidationError{Code: "error.invalidPage", Message: "page_size must be a number"}
	}
	return f, nil
}

// GetReservations GET /api/reservations
func (rc *ReservationController) GetReservations(c *gin.Context) {
	f, err := parseReservationFilter(c)
	if err != nil {
		writeError(c, err, "")
		return
	}
	page, err := rc.ReservationSvc.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err, "")
		return
	}

	out := ReservationPageResponse{
		Count:    page.Count,
		Page:     page.Page,
		PageSize: page.PageSize,
		Results:  make([]ReservationResponse, 0, len(page.Results)),
	}
	for _, r := range page.Results {
		out.Results = append(out.Results, toReservationResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

// ExportReservations GET /api/reservations/export
func (rc *ReservationController) ExportReservations(c *gin.Context) {
	f, err := parseReservationFilter(c)
	if err != nil {
		writeError(c, err, "")
		return
	}
	list, err := rc.ReservationSvc.All(c.Request.Context(), f)
	if err != nil {
		writeError(c, err, "")
		return
	}
	buf, err := services.ReservationsWorkbook(list)
	if err != nil {
		writeError(c, err, "")
		return
	}

	filename := fmt.Sprintf("reservations-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetReservation GET /api/reservations/:id
// Staff may read any reservation; a guest only their own.
func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		badID(c)
		return
	}
	res, err := rc.ReservationSvc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "reservation")
		return
	}
	current, _ := middleware.CurrentUser(c)
	if !services.CanAccessOwned(current, services.ReservationsRetrieve, res.UserID) {
		forbidden(c)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(*res))
}

// DeleteReservation DELETE /api/reservations/:id
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		badID(c)
		return
	}
	if err := rc.ReservationSvc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "reservation")
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateReservationDates PUT|PATCH /api/updatereservationdates/:id
func (rc *ReservationController) UpdateReservationDates(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		badID(c)
		return
	}
	var req UpdateDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	partial := c.Request.Method == http.MethodPatch
	if !partial && (req.CheckInDate == "" || req.CheckOutDate == "") {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "check_in_date and check_out_date are required")
		return
	}

	var stay services.Stay
	if partial && (req.CheckInDate == "" || req.CheckOutDate == "") {
		current, err := rc.ReservationSvc.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err, "reservation")
			return
		}
		stay = services.Stay{CheckIn: current.CheckIn(), CheckOut: current.CheckOut()}
	}
	if req.CheckInDate != "" {
		t, err := services.ParseDate("check_in_date", req.CheckInDate)
		if err != nil {
			writeError(c, err, "")
			return
		}
		stay.CheckIn = t
	}
	if req.CheckOutDate != "" {
		t, err := services.ParseDate("check_out_date", req.CheckOutDate)
		if err != nil {
			writeError(c, err, "")
			return
		}
		stay.CheckOut = t
	}

	res, err := rc.ReservationSvc.UpdateDates(c.Request.Context(), id, stay)
	if err != nil {
		writeError(c, err, "reservation")
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(*res))
}

// UpdateReservationRoom PUT|PATCH /api/updatereservationroom/:id
func (rc *ReservationController) UpdateReservationRoom(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		badID(c)
		return
	}
	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	res, err := rc.ReservationSvc.UpdateRoom(c.Request.Context(), id, req.AssignedRoom)
	if err != nil {
		writeError(c, err, "reservation")
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(*res))
}
