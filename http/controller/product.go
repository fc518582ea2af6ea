package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/charcoal-cms/http/controller/dto"
	"github.com/tnqbao/charcoal-cms/repository"
	"github.com/tnqbao/charcoal-cms/utils"
)

func (ctrl *Controller) ListProducts(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		return
	}
	filter := repository.ProductFilter{Category: c.Query("category")}

	page, err := ctrl.Services.Products.List(c.Request.Context(), filter, params)
	if err != nil {
		ctrl.respondError(c, "Product", err)
		return
	}
	utils.JSON200(c, page)
}

func (ctrl *Controller) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := ctrl.Services.Products.Get(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, "Product", err)
		return
	}
	utils.JSON200(c, product)
}

func (ctrl *Controller) CheckProductSlug(c *gin.Context) {
	excludeID, ok := parseOptionalUUIDQuery(c, "excludeId")
	if !ok {
		return
	}
	available, err := ctrl.Services.Products.CheckSlugAvailability(c.Request.Context(), callerFrom(c), c.Query("slug"), excludeID)
	if err != nil {
		ctrl.respondError(c, "Product", err)
		return
	}
	utils.JSON200(c, gin.H{"available": available})
}

func (ctrl *Controller) CreateProduct(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.CreateProductRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Product] Failed to bind create request: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	product, err := ctrl.Services.Products.Create(ctx, callerFrom(c), req.Input())
	if err != nil {
		ctrl.respondError(c, "Product", err)
		return
	}
	ctrl.invalidatePublic(ctx, "products", "home")
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Product] Created %s (%s)", product.Slug, product.ID)
	utils.JSON201(c, product)
}

func (ctrl *Controller) UpdateProduct(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	product, err := ctrl.Services.Products.Update(ctx, callerFrom(c), id, req.Patch())
	if err != nil {
		ctrl.respondError(c, "Product", err)
		return
	}
	ctrl.invalidatePublic(ctx, "products", "home")
	utils.JSON200(c, product)
}

func (ctrl *Controller) DeleteProduct(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Services.Products.Delete(ctx, callerFrom(c), id); err != nil {
		ctrl.respondError(c, "Product", err)
		return
	}
	ctrl.invalidatePublic(ctx, "products", "home")
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Product] Deleted %s", id)
	utils.JSON200(c, gin.H{"success": true})
}

func (ctrl *Controller) ReorderProducts(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.IDsRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}
	if err := ctrl.Services.Products.Reorder(ctx, callerFrom(c), req.IDs); err != nil {
		ctrl.respondError(c, "Product", err)
		return
	}
	ctrl.invalidatePublic(ctx, "products", "home")
	utils.JSON200(c, gin.H{"success": true})
}
