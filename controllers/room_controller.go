package controllers

import (
	"net/http"
	"strings"

	"hotel-reservation/models"
	"hotel-reservation/services"
	"hotel-reservation/utils"

	"github.com/gin-gonic/gin"
)

type RoomRequest struct {
	RoomType *uint   `json:"room_type"`
	Number   *string `json:"number"`
}

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

// ----------------------------------------------------
// GET /api/rooms
// ----------------------------------------------------

func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.RoomSvc.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (rc *RoomController) GetRoom(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		badID(c)
		return
	}
	room, err := rc.RoomSvc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "room")
		return
	}
	c.JSON(http.StatusOK, room)
}

// ----------------------------------------------------
// POST /api/rooms
// ----------------------------------------------------

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	if req.RoomType == nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidRoom", "room_type is required.")
		return
	}

	room := models.Room{RoomTypeID: *req.RoomType}
	if req.Number != nil {
		room.Number = strings.TrimSpace(*req.Number)
	}
	if err := rc.RoomSvc.Create(c.Request.Context(), &room); err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, room)
}

// ----------------------------------------------------
// PUT|PATCH /api/rooms/:id
// ----------------------------------------------------

func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		badID(c)
		return
	}
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	room, err := rc.RoomSvc.Update(c.Request.Context(), id, services.RoomPatch{
		RoomTypeID: req.RoomType,
		Number:     req.Number,
	})
	if err != nil {
		writeError(c, err, "room")
		return
	}
	c.JSON(http.StatusOK, room)
}

// ----------------------------------------------------
// DELETE /api/rooms/:id
// ----------------------------------------------------

func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		badID(c)
		return
	}
	if err := rc.RoomSvc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "room")
		return
	}
	c.Status(http.StatusNoContent)
}
