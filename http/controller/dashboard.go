package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/charcoal-cms/utils"
)

func (ctrl *Controller) DashboardSummary(c *gin.Context) {
	summary, err := ctrl.Services.Dashboard.Summary(c.Request.Context(), callerFrom(c))
	if err != nil {
		ctrl.respondError(c, "Dashboard", err)
		return
	}
	utils.JSON200(c, summary)
}
