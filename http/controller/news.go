package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/charcoal-cms/http/controller/dto"
	"github.com/tnqbao/charcoal-cms/utils"
)

func (ctrl *Controller) ListNews(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		return
	}
	page, err := ctrl.Services.News.List(c.Request.Context(), false, params)
	if err != nil {
		ctrl.respondError(c, "News", err)
		return
	}
	utils.JSON200(c, page)
}

func (ctrl *Controller) GetNews(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	article, err := ctrl.Services.News.Get(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, "News", err)
		return
	}
	utils.JSON200(c, article)
}

func (ctrl *Controller) CheckNewsSlug(c *gin.Context) {
	excludeID, ok := parseOptionalUUIDQuery(c, "excludeId")
	if !ok {
		return
	}
	available, err := ctrl.Services.News.CheckSlugAvailability(c.Request.Context(), callerFrom(c), c.Query("slug"), excludeID)
	if err != nil {
		ctrl.respondError(c, "News", err)
		return
	}
	utils.JSON200(c, gin.H{"available": available})
}

func (ctrl *Controller) CreateNews(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.CreateNewsRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[News] Failed to bind create request: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	article, err := ctrl.Services.News.Create(ctx, callerFrom(c), req.Input())
	if err != nil {
		ctrl.respondError(c, "News", err)
		return
	}
	ctrl.invalidatePublic(ctx, "news", "home")
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[News] Created %s (%s)", article.Slug, article.ID)
	utils.JSON201(c, article)
}

func (ctrl *Controller) UpdateNews(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateNewsRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	article, err := ctrl.Services.News.Update(ctx, callerFrom(c), id, req.Patch())
	if err != nil {
		ctrl.respondError(c, "News", err)
		return
	}
	ctrl.invalidatePublic(ctx, "news", "home")
	utils.JSON200(c, article)
}

func (ctrl *Controller) DeleteNews(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Services.News.Delete(ctx, callerFrom(c), id); err != nil {
		ctrl.respondError(c, "News", err)
		return
	}
	ctrl.invalidatePublic(ctx, "news", "home")
	utils.JSON200(c, gin.H{"success": true})
}
