// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fairprice/fairprice-backend/internal/i18n"
	"github.com/fairprice/fairprice-backend/internal/services"
	"github.com/fairprice/fairprice-backend/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyUserNotFound)
		return
	}

	utils.SuccessResponse(c, user)
}

// GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), actor)
	if err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyUserNotFound)
		return
	}

	utils.SuccessResponse(c, users)
}

// PATCH /users/:id/activate
func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true, i18n.KeyUserActivated)
}

// PATCH /users/:id/deactivate
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false, i18n.KeyUserDeactivated)
}

func (h *UserHandler) setActive(c *gin.Context, active bool, messageKey string) {
	lang := utils.GetLangFromContext(c)

	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "id", "user")
	if !ok {
		return
	}

	if err := h.userService.SetActive(c.Request.Context(), actor, userID, active); err != nil {
		utils.ServiceErrorResponse(c, err, i18n.KeyUserNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
	})
}
