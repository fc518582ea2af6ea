package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/charcoal-cms/http/controller/dto"
	"github.com/tnqbao/charcoal-cms/utils"
)

func (ctrl *Controller) setAccessCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(utils.AccessTokenCookie, token, maxAge, "/", ctrl.Config.EnvConfig.CORS.GlobalDomain,
		ctrl.Config.EnvConfig.Environment.Mode == "production", true)
}

func (ctrl *Controller) Login(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.LoginRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	res, err := ctrl.Services.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		ctrl.respondError(c, "Auth", err)
		return
	}

	ctrl.setAccessCookie(c, res.AccessToken, int(time.Until(res.ExpiresAt).Seconds()))
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Auth] %s signed in", res.User.Email)
	utils.JSON200(c, res)
}

func (ctrl *Controller) Logout(c *gin.Context) {
	ctrl.setAccessCookie(c, "", -1)
	utils.JSON200(c, gin.H{"success": true})
}

func (ctrl *Controller) Me(c *gin.Context) {
	user, err := ctrl.Services.Auth.Me(c.Request.Context(), callerFrom(c))
	if err != nil {
		ctrl.respondError(c, "Auth", err)
		return
	}
	utils.JSON200(c, user)
}
