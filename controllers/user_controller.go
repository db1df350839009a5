package controllers

import (
	"net/http"

	"hotel-reservation/middleware"
	"hotel-reservation/models"
	"hotel-reservation/services"
	"hotel-reservation/utils"

	"github.com/gin-gonic/gin"
)

type UserRequest struct {
	Username  *string      `json:"username"`
	Email     *string      `json:"email"`
	FirstName *string      `json:"first_name"`
	LastName  *string      `json:"last_name"`
	Password  *string      `json:"password"`
	Role      *models.Role `json:"role"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r UserRequest) input() services.UserInput {
	in := services.UserInput{
		Username:  deref(r.Username),
		Email:     deref(r.Email),
		FirstName: deref(r.FirstName),
		LastName:  deref(r.LastName),
		Password:  deref(r.Password),
		Role:      models.RoleGuest,
	}
	if r.Role != nil {
		in.Role = *r.Role
	}
	return in
}

type UserController struct {
	UserSvc *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{UserSvc: svc}
}

// GET /api/users
func (uc *UserController) GetUsers(c *gin.Context) {
	users, err := uc.UserSvc.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, users)
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		badID(c)
		return
	}
	current, _ := middleware.CurrentUser(c)
	if !services.CanAccessOwned(current, services.UsersRetrieve, &id) {
		forbidden(c)
		return
	}
	user, err := uc.UserSvc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /api/users
func (uc *UserController) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	user, err := uc.UserSvc.Create(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// PUT|PATCH /api/users/:id
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		badID(c)
		return
	}
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	user, err := uc.UserSvc.Update(c.Request.Context(), id, services.UserPatch{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		writeError(c, err, "user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := utils.ParamID(c, "id")
	if !ok {
		badID(c)
		return
	}
	if current, _ := middleware.CurrentUser(c); current.ID == id {
		utils.JSONError(c, http.StatusBadRequest, "error.deleteSelf", "You cannot delete your own account.")
		return
	}
	if err := uc.UserSvc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "user")
		return
	}
	c.Status(http.StatusNoContent)
}
