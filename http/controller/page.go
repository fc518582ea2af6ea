package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/charcoal-cms/http/controller/dto"
	"github.com/tnqbao/charcoal-cms/service"
	"github.com/tnqbao/charcoal-cms/utils"
)

func (ctrl *Controller) ListPages(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		return
	}
	page, err := ctrl.Services.Pages.List(c.Request.Context(), params)
	if err != nil {
		ctrl.respondError(c, "Page", err)
		return
	}
	utils.JSON200(c, page)
}

func (ctrl *Controller) GetPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	view, err := ctrl.Services.Pages.Get(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, "Page", err)
		return
	}
	utils.JSON200(c, view)
}

func (ctrl *Controller) CheckPagePath(c *gin.Context) {
	excludeID, ok := parseOptionalUUIDQuery(c, "excludeId")
	if !ok {
		return
	}
	available, err := ctrl.Services.Pages.CheckPathAvailability(c.Request.Context(), callerFrom(c), c.Query("path"), excludeID)
	if err != nil {
		ctrl.respondError(c, "Page", err)
		return
	}
	utils.JSON200(c, gin.H{"available": available})
}

func (ctrl *Controller) CreatePage(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.CreatePageRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	page, err := ctrl.Services.Pages.Create(ctx, callerFrom(c), service.PageInput{
		Path:        req.Path,
		Title:       req.Title,
		Description: req.Description,
		Keywords:    req.Keywords,
	})
	if err != nil {
		ctrl.respondError(c, "Page", err)
		return
	}
	ctrl.invalidatePublic(ctx, "pages", "home")
	utils.JSON201(c, page)
}

func (ctrl *Controller) UpdatePage(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePageRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	page, err := ctrl.Services.Pages.Update(ctx, callerFrom(c), id, req.Patch())
	if err != nil {
		ctrl.respondError(c, "Page", err)
		return
	}
	ctrl.invalidatePublic(ctx, "pages", "home")
	utils.JSON200(c, page)
}

func (ctrl *Controller) DeletePage(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Services.Pages.Delete(ctx, callerFrom(c), id); err != nil {
		ctrl.respondError(c, "Page", err)
		return
	}
	ctrl.invalidatePublic(ctx, "pages", "home")
	utils.JSON200(c, gin.H{"success": true})
}
