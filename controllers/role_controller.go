package controllers

import (
	"net/http"

	"hotel-reservation/models"
	"hotel-reservation/services"

	"github.com/gin-gonic/gin"
)

var roleDescriptions = map[models.Role]string{
	models.RoleAdmin: "Full access, including catalog and user management",
	models.RoleAgent: "Front desk: reservations and read-only catalog",
	models.RoleGuest: "Books and views their own reservations",
}

type roleResponse struct {
	Name        models.Role                `json:"name"`
	Description string                     `json:"description"`
	Members     int64                      `json:"members"`
	Permissions map[string]map[string]bool `json:"permissions"`
}

type RoleController struct {
	UserSvc *services.UserService
}

func NewRoleController(users *services.UserService) *RoleController {
	return &RoleController{UserSvc: users}
}

// GetRoles GET /api/roles
func (rc *RoleController) GetRoles(c *gin.Context) {
	counts, err := rc.UserSvc.CountByRole(c.Request.Context())
	if err != nil {
		writeError(c, err, "")
		return
	}
	perms := services.PermissionsByRole()

	out := make([]roleResponse, 0, len(models.AllRoles))
	for _, role := range models.AllRoles {
		out = append(out, roleResponse{
			Name:        role,
			Description: roleDescriptions[role],
			Members:     counts[role],
			Permissions: perms[role],
		})
	}
	c.JSON(http.StatusOK, out)
}
