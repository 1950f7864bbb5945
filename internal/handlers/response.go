package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"event-portal/internal/apperrors"
	"event-portal/internal/auth"
	"event-portal/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes err in the standard failure envelope. Domain errors
// keep their code and status; anything else is a 500 with a generic message.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal server error",
			"code":    apperrors.CodeUnknown,
		})
		return
	}

	status := appErr.Code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}

	body := gin.H{
		"success": false,
		"error":   appErr.Message,
		"code":    appErr.Code,
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.JSON(status, body)
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// bindJSON decodes the body into req, answering 400 on malformed input
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, apperrors.Wrap(apperrors.CodeValidationFailed, "Invalid request body: "+err.Error(), err))
		return false
	}
	return true
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		respondError(c, apperrors.Validation("Invalid "+name, map[string]string{name: "must be a positive integer"}))
		return 0, false
	}
	return uint(id), true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, apperrors.Validation("Invalid "+name, map[string]string{name: "must be a UUID"}))
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated caller or answers 401
func currentUser(c *gin.Context) (auth.CurrentUser, bool) {
	user, ok := auth.GetCurrentUser(c)
	if !ok {
		respondError(c, apperrors.New(apperrors.CodeUnauthorized, "Unauthorized"))
		return auth.CurrentUser{}, false
	}
	return user, true
}

func asScanner(u auth.CurrentUser) services.Scanner {
	return services.Scanner{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
