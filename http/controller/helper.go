package controller

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/service"
	"github.com/tnqbao/charcoal-cms/utils"
)

// callerFrom builds the service caller from the claims the auth middleware stored.
func callerFrom(c *gin.Context) service.Caller {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		return service.Anonymous()
	}
	return service.Caller{
		ID:              id,
		Email:           c.GetString("email"),
		Role:            c.GetString("permission"),
		IsAuthenticated: true,
	}
}

func (ctrl *Controller) respondError(c *gin.Context, tag string, err error) {
	ctx := c.Request.Context()
	message := service.MessageOf(err)
	switch service.CodeOf(err) {
	case service.CodeUnauthorized:
		utils.JSON401(c, message)
	case service.CodeBadRequest:
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[%s] Rejected request: %s", tag, message)
		utils.JSON400(c, message)
	case service.CodeNotFound:
		utils.JSON404(c, message)
	default:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[%s] %s", tag, message)
		utils.JSON500(c, message)
	}
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.JSON400(c, fmt.Sprintf("Invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

func parseOptionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.JSON400(c, fmt.Sprintf("Invalid %s", name))
		return nil, false
	}
	return &id, true
}

func listParams(c *gin.Context) (service.ListParams, bool) {
	params := service.ListParams{
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	var err error
	if raw := c.Query("page"); raw != "" {
		if params.Page, err = strconv.Atoi(raw); err != nil {
			utils.JSON400(c, "page must be a number")
			return params, false
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if params.Limit, err = strconv.Atoi(raw); err != nil {
			utils.JSON400(c, "limit must be a number")
			return params, false
		}
	}
	return params, true
}

func mediaKindParam(c *gin.Context) (entity.MediaKind, bool) {
	kind, ok := service.ParseMediaKind(c.Param("kind"))
	if !ok {
		utils.JSON404(c, "Unknown media kind")
		return "", false
	}
	return kind, true
}
