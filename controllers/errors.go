package controllers

import (
	"errors"
	"log"
	"net/http"

	"hotel-reservation/services"
	"hotel-reservation/utils"

	"github.com/gin-gonic/gin"
)

// writeError maps a service error to a response. pathResource names the resource addressed
// by the URL: only a miss on that one is a 404, anything else referenced by the body is a 400.
func writeError(c *gin.Context, err error, pathResource string) {
	var ve *services.ValidationError
	var nf *services.NotFoundError
	switch {
	case errors.As(err, &ve):
		utils.JSONError(c, http.StatusBadRequest, ve.Code, ve.Message)
	case errors.As(err, &nf):
		if nf.Resource == pathResource {
			utils.JSONError(c, http.StatusNotFound, "error.notFound", nf.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "error.invalidReference", nf.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "error.invalidCredentials", "No active account found with the given credentials")
	case errors.Is(err, services.ErrUnauthenticated):
		utils.JSONError(c, http.StatusUnauthorized, "error.unauthenticated", services.ErrUnauthenticated.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, "error.forbidden", services.ErrForbidden.Error())
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "Internal server error")
	}
}

func badPayload(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
}

func badID(c *gin.Context) {
	utils.JSONError(c, http.StatusNotFound, "error.notFound", "Not found.")
}

func forbidden(c *gin.Context) {
	writeError(c, services.ErrForbidden, "")
}
