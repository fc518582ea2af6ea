package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/http/controller/dto"
	"github.com/tnqbao/charcoal-cms/infra"
	"github.com/tnqbao/charcoal-cms/repository"
	"github.com/tnqbao/charcoal-cms/service"
	"github.com/tnqbao/charcoal-cms/utils"
)

const (
	publicCachePrefix = "public:"
	homeProductCount  = 6
	homeNewsCount     = 3
)

func publicCacheKey(section string, c *gin.Context) string {
	return publicCachePrefix + section + ":" + utils.HashSHA256(c.Request.URL.Path+"?"+c.Request.URL.RawQuery)
}

// servePublic answers from the public cache when possible and fills it on a miss.
// Cache failures only cost a database round trip.
func (ctrl *Controller) servePublic(c *gin.Context, section string, load func(ctx context.Context) (interface{}, error)) {
	ctx := c.Request.Context()
	key := publicCacheKey(section, c)

	if ctrl.Cache != nil {
		var raw json.RawMessage
		err := ctrl.Cache.Get(ctx, key, &raw)
		if err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
			return
		}
		if !errors.Is(err, infra.ErrCacheMiss) {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Public] Cache read failed for %s: %v", key, err)
		}
	}

	data, err := load(ctx)
	if err != nil {
		ctrl.respondError(c, "Public", err)
		return
	}

	if ctrl.Cache != nil {
		if err := ctrl.Cache.Set(ctx, key, data, ctrl.Config.EnvConfig.Cache.PublicTTL); err != nil {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Public] Cache write failed for %s: %v", key, err)
		}
	}
	utils.JSON200(c, data)
}

// invalidatePublic drops every cached response of the given sections.
func (ctrl *Controller) invalidatePublic(ctx context.Context, sections ...string) {
	if ctrl.Cache == nil {
		return
	}
	for _, section := range sections {
		if _, err := ctrl.Cache.DeleteByPattern(ctx, publicCachePrefix+section+":*"); err != nil {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Public] Failed to invalidate %s cache: %v", section, err)
		}
	}
}

func (ctrl *Controller) PublicHome(c *gin.Context) {
	ctrl.servePublic(c, "home", func(ctx context.Context) (interface{}, error) {
		products, err := ctrl.Services.Products.List(ctx, repository.ProductFilter{OnlyPublished: true}, service.ListParams{Limit: homeProductCount})
		if err != nil {
			return nil, err
		}
		news, err := ctrl.Services.News.List(ctx, true, service.ListParams{Limit: homeNewsCount})
		if err != nil {
			return nil, err
		}
		home := gin.H{
			"products": products.Items,
			"news":     news.Items,
		}
		page, err := ctrl.Services.Pages.GetByPath(ctx, "/")
		switch {
		case err == nil:
			home["page"] = page
		case service.CodeOf(err) != service.CodeNotFound:
			return nil, err
		}
		return home, nil
	})
}

func (ctrl *Controller) PublicProducts(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		return
	}
	filter := repository.ProductFilter{OnlyPublished: true, Category: c.Query("category")}
	ctrl.servePublic(c, "products", func(ctx context.Context) (interface{}, error) {
		return ctrl.Services.Products.List(ctx, filter, params)
	})
}

func (ctrl *Controller) PublicProduct(c *gin.Context) {
	slug := c.Param("slug")
	ctrl.servePublic(c, "products", func(ctx context.Context) (interface{}, error) {
		return ctrl.Services.Products.GetPublished(ctx, slug)
	})
}

func (ctrl *Controller) PublicNews(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		return
	}
	ctrl.servePublic(c, "news", func(ctx context.Context) (interface{}, error) {
		return ctrl.Services.News.List(ctx, true, params)
	})
}

func (ctrl *Controller) PublicNewsArticle(c *gin.Context) {
	slug := c.Param("slug")
	ctrl.servePublic(c, "news", func(ctx context.Context) (interface{}, error) {
		return ctrl.Services.News.GetPublished(ctx, slug)
	})
}

func (ctrl *Controller) PublicGallery(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		return
	}
	ctrl.servePublic(c, "gallery", func(ctx context.Context) (interface{}, error) {
		page, err := ctrl.Services.Media.List(ctx, entity.MediaKindGalleryPhoto, nil, params)
		if err != nil {
			return nil, err
		}
		return gin.H{
			"photos":    page.Items,
			"total":     page.Total,
			"page":      page.Page,
			"page_size": page.PageSize,
		}, nil
	})
}

func (ctrl *Controller) PublicTeam(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		return
	}
	ctrl.servePublic(c, "team", func(ctx context.Context) (interface{}, error) {
		return ctrl.Services.Team.ListWithPhotos(ctx, params)
	})
}

func (ctrl *Controller) PublicPage(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		utils.JSON400(c, "path is required")
		return
	}
	ctrl.servePublic(c, "pages", func(ctx context.Context) (interface{}, error) {
		return ctrl.Services.Pages.GetByPath(ctx, path)
	})
}

func (ctrl *Controller) SubmitContact(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.ContactRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	msg, err := ctrl.Services.Contact.Submit(ctx, service.ContactInput{
		Name:     req.Name,
		Email:    req.Email,
		Company:  req.Company,
		Phone:    req.Phone,
		Message:  req.Message,
		RemoteIP: c.ClientIP(),
	})
	if err != nil {
		ctrl.respondError(c, "Contact", err)
		return
	}
	utils.JSON201(c, gin.H{"success": true, "id": msg.ID})
}
