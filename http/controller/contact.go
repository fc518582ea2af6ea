package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/charcoal-cms/http/controller/dto"
	"github.com/tnqbao/charcoal-cms/utils"
)

func (ctrl *Controller) ListContactMessages(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		return
	}
	onlyUnhandled, _ := strconv.ParseBool(c.Query("unhandled"))

	page, err := ctrl.Services.Contact.List(c.Request.Context(), callerFrom(c), onlyUnhandled, params)
	if err != nil {
		ctrl.respondError(c, "Contact", err)
		return
	}
	utils.JSON200(c, page)
}

func (ctrl *Controller) MarkContactHandled(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.MarkHandledRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	if err := ctrl.Services.Contact.MarkHandled(c.Request.Context(), callerFrom(c), id, *req.Handled); err != nil {
		ctrl.respondError(c, "Contact", err)
		return
	}
	utils.JSON200(c, gin.H{"success": true})
}

func (ctrl *Controller) DeleteContactMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Services.Contact.Delete(c.Request.Context(), callerFrom(c), id); err != nil {
		ctrl.respondError(c, "Contact", err)
		return
	}
	utils.JSON200(c, gin.H{"success": true})
}
