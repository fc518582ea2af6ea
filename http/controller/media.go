package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/http/controller/dto"
	"github.com/tnqbao/charcoal-cms/infra"
	"github.com/tnqbao/charcoal-cms/service"
	"github.com/tnqbao/charcoal-cms/utils"
)

// publicSectionsOf lists the cached public sections that render media of a kind.
func publicSectionsOf(kind entity.MediaKind) []string {
	switch kind {
	case entity.MediaKindGalleryPhoto:
		return []string{"gallery"}
	case entity.MediaKindProductMedia, entity.MediaKindPackagingOption:
		return []string{"products", "home"}
	case entity.MediaKindTeamPhoto:
		return []string{"team"}
	case entity.MediaKindOGImage:
		return []string{"pages", "home"}
	}
	return nil
}

func (ctrl *Controller) ListMedia(c *gin.Context) {
	kind, ok := mediaKindParam(c)
	if !ok {
		return
	}
	params, ok := listParams(c)
	if !ok {
		return
	}
	ownerID, ok := parseOptionalUUIDQuery(c, "ownerId")
	if !ok {
		return
	}

	page, err := ctrl.Services.Media.List(c.Request.Context(), kind, ownerID, params)
	if err != nil {
		ctrl.respondError(c, "Media", err)
		return
	}
	utils.JSON200(c, gin.H{
		"photos":    page.Items,
		"total":     page.Total,
		"page":      page.Page,
		"page_size": page.PageSize,
	})
}

func (ctrl *Controller) GetMedia(c *gin.Context) {
	kind, ok := mediaKindParam(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := ctrl.Services.Media.Get(c.Request.Context(), kind, id)
	if err != nil {
		ctrl.respondError(c, "Media", err)
		return
	}
	utils.JSON200(c, view)
}

func (ctrl *Controller) CreatePresignedURL(c *gin.Context) {
	ctx := c.Request.Context()
	kind, ok := mediaKindParam(c)
	if !ok {
		return
	}

	var req dto.PresignUploadRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Media] Failed to bind presign request: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	res, err := ctrl.Services.Media.CreatePresignedURL(ctx, callerFrom(c), kind, service.PresignInput{
		Name:      req.Name,
		MimeType:  req.MimeType,
		SizeBytes: req.SizeBytes,
		OwnerID:   req.OwnerID,
	})
	infra.RecordUpload(string(kind), "presign", err)
	if err != nil {
		ctrl.respondError(c, "Media", err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Media] Presigned upload %s", res.Key)
	utils.JSON200(c, res)
}

func (ctrl *Controller) ConfirmUpload(c *gin.Context) {
	ctx := c.Request.Context()
	kind, ok := mediaKindParam(c)
	if !ok {
		return
	}

	var req dto.ConfirmUploadRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Media] Failed to bind confirm request: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	view, err := ctrl.Services.Media.ConfirmUpload(ctx, callerFrom(c), kind, service.ConfirmInput{
		PhotoID:   req.PhotoID,
		Key:       req.Key,
		Name:      req.Name,
		SizeBytes: req.SizeBytes,
		MimeType:  req.MimeType,
	})
	infra.RecordUpload(string(kind), "confirm", err)
	if err != nil {
		ctrl.respondError(c, "Media", err)
		return
	}

	ctrl.invalidatePublic(ctx, publicSectionsOf(kind)...)
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Media] Confirmed upload %s", view.StorageKey)
	utils.JSON201(c, gin.H{
		"success":  true,
		"photo_id": view.ID,
		"photo":    view,
	})
}

func (ctrl *Controller) RenameMedia(c *gin.Context) {
	ctx := c.Request.Context()
	kind, ok := mediaKindParam(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.RenameMediaRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	if err := ctrl.Services.Media.Rename(ctx, callerFrom(c), kind, id, req.Name); err != nil {
		ctrl.respondError(c, "Media", err)
		return
	}
	ctrl.invalidatePublic(ctx, publicSectionsOf(kind)...)
	utils.JSON200(c, gin.H{"success": true})
}

func (ctrl *Controller) DeleteMedia(c *gin.Context) {
	ctx := c.Request.Context()
	kind, ok := mediaKindParam(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.Services.Media.Delete(ctx, callerFrom(c), kind, id); err != nil {
		ctrl.respondError(c, "Media", err)
		return
	}
	ctrl.invalidatePublic(ctx, publicSectionsOf(kind)...)
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Media] Deleted %s %s", kind, id)
	utils.JSON200(c, gin.H{"success": true})
}

func (ctrl *Controller) BulkDeleteMedia(c *gin.Context) {
	ctx := c.Request.Context()
	kind, ok := mediaKindParam(c)
	if !ok {
		return
	}

	var req dto.IDsRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	res, err := ctrl.Services.Media.BulkDelete(ctx, callerFrom(c), kind, req.IDs)
	if err != nil {
		ctrl.respondError(c, "Media", err)
		return
	}
	if res.DeletedCount > 0 {
		ctrl.invalidatePublic(ctx, publicSectionsOf(kind)...)
	}
	if !res.Success {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Media] Bulk delete of %s left %d items behind", kind, len(res.Failed))
	}
	utils.JSON200(c, res)
}

func (ctrl *Controller) CheckMediaName(c *gin.Context) {
	kind, ok := mediaKindParam(c)
	if !ok {
		return
	}
	excludeID, ok := parseOptionalUUIDQuery(c, "excludeId")
	if !ok {
		return
	}

	available, err := ctrl.Services.Media.CheckNameAvailability(c.Request.Context(), callerFrom(c), kind, c.Query("name"), excludeID)
	if err != nil {
		ctrl.respondError(c, "Media", err)
		return
	}
	utils.JSON200(c, gin.H{"available": available})
}

func (ctrl *Controller) ReorderMedia(c *gin.Context) {
	ctx := c.Request.Context()
	kind, ok := mediaKindParam(c)
	if !ok {
		return
	}
	ownerID, ok := parseOptionalUUIDQuery(c, "ownerId")
	if !ok {
		return
	}

	var req dto.IDsRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	if err := ctrl.Services.Media.Reorder(ctx, callerFrom(c), kind, ownerID, req.IDs); err != nil {
		ctrl.respondError(c, "Media", err)
		return
	}
	ctrl.invalidatePublic(ctx, publicSectionsOf(kind)...)
	utils.JSON200(c, gin.H{"success": true})
}
