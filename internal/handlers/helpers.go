// internal/handlers/helpers.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fairprice/fairprice-backend/internal/i18n"
	"github.com/fairprice/fairprice-backend/internal/services"
	"github.com/fairprice/fairprice-backend/internal/utils"
)

// actorFromContext builds the workflow caller from the authenticated claims.
func actorFromContext(c *gin.Context) (services.Actor, bool) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return services.Actor{}, false
	}
	role, _ := utils.GetRoleFromContext(c)
	return services.Actor{UserID: userID, Role: role}, true
}

func uuidParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationID, label), nil)
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUIDQuery returns nil when the query parameter is absent.
func optionalUUIDQuery(c *gin.Context, name, label string) (*uuid.UUID, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, true
	}
	id, err := uuid.Parse(value)
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationID, label), nil)
		return nil, false
	}
	return &id, true
}

// dateQuery parses a YYYY-MM-DD query parameter, falling back to fallback
// when it is absent.
func dateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return fallback, true
	}
	date, err := utils.ParseDate(value)
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationDate), nil)
		return time.Time{}, false
	}
	return date, true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}
	return true
}
