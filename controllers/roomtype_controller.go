package controllers

import (
	"net/http"

	"hotel-reservation/models"
	"hotel-reservation/services"
	"hotel-reservation/utils"

	"github.com/gin-gonic/gin"
)

type RoomTypeRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Capacity      *uint   `json:"capacity"`
	PricePerNight *uint   `json:"price_per_night"`
}

type RoomTypeController struct {
	RoomTypeSvc *services.RoomTypeService
}

func NewRoomTypeController(svc *services.RoomTypeService) *RoomTypeController {
	return &RoomTypeController{RoomTypeSvc: svc}
}

func (rc *RoomTypeController) GetRoomTypes(c *gin.Context) {
	types, err := rc.RoomTypeSvc.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, types)
}

func (rc *RoomTypeController) GetRoomType(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		badID(c)
		return
	}
	rt, err := rc.RoomTypeSvc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "room type")
		return
	}
	c.JSON(http.StatusOK, rt)
}

func (rc *RoomTypeController) CreateRoomType(c *gin.Context) {
	var req RoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	var rt models.RoomType
	if req.Name != nil {
		rt.Name = *req.Name
	}
	if req.Description != nil {
		rt.Description = *req.Description
	}
	if req.Capacity != nil {
		rt.Capacity = *req.Capacity
	}
	if req.PricePerNight != nil {
		rt.PricePerNight = *req.PricePerNight
	}
	if err := rc.RoomTypeSvc.Create(c.Request.Context(), &rt); err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, rt)
}

// UpdateRoomType handles PUT and PATCH; omitted fields keep their value.
func (rc *RoomTypeController) UpdateRoomType(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		badID(c)
		return
	}
	var req RoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	rt, err := rc.RoomTypeSvc.Update(c.Request.Context(), id, services.RoomTypePatch{
		Name:          req.Name,
		Description:   req.Description,
		Capacity:      req.Capacity,
		PricePerNight: req.PricePerNight,
	})
	if err != nil {
		writeError(c, err, "room type")
		return
	}
	c.JSON(http.StatusOK, rt)
}

func (rc *RoomTypeController) DeleteRoomType(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		badID(c)
		return
	}
	if err := rc.RoomTypeSvc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "room type")
		return
	}
	c.Status(http.StatusNoContent)
}
