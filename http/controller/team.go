package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/charcoal-cms/entity"
	"github.com/tnqbao/charcoal-cms/http/controller/dto"
	"github.com/tnqbao/charcoal-cms/service"
	"github.com/tnqbao/charcoal-cms/utils"
)

func (ctrl *Controller) ListTeamMembers(c *gin.Context) {
	params, ok := listParams(c)
	if !ok {
		return
	}
	page, err := ctrl.Services.Team.List(c.Request.Context(), params)
	if err != nil {
		ctrl.respondError(c, "Team", err)
		return
	}
	utils.JSON200(c, page)
}

func (ctrl *Controller) GetTeamMember(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	member, err := ctrl.Services.Team.Get(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, "Team", err)
		return
	}
	utils.JSON200(c, member)
}

func (ctrl *Controller) CreateTeamMember(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.CreateTeamMemberRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	member, err := ctrl.Services.Team.Create(ctx, callerFrom(c), service.TeamMemberInput{
		Name: req.Name,
		Role: req.Role,
		Bio:  req.Bio,
	})
	if err != nil {
		ctrl.respondError(c, "Team", err)
		return
	}
	ctrl.invalidatePublic(ctx, "team")
	utils.JSON201(c, member)
}

func (ctrl *Controller) UpdateTeamMember(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTeamMemberRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}

	member, err := ctrl.Services.Team.Update(ctx, callerFrom(c), id, entity.TeamMemberPatch{
		Name: req.Name,
		Role: req.Role,
		Bio:  req.Bio,
	})
	if err != nil {
		ctrl.respondError(c, "Team", err)
		return
	}
	ctrl.invalidatePublic(ctx, "team")
	utils.JSON200(c, member)
}

func (ctrl *Controller) DeleteTeamMember(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Services.Team.Delete(ctx, callerFrom(c), id); err != nil {
		ctrl.respondError(c, "Team", err)
		return
	}
	ctrl.invalidatePublic(ctx, "team")
	utils.JSON200(c, gin.H{"success": true})
}

func (ctrl *Controller) ReorderTeamMembers(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.IDsRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Invalid request payload")
		return
	}
	if err := ctrl.Services.Team.Reorder(ctx, callerFrom(c), req.IDs); err != nil {
		ctrl.respondError(c, "Team", err)
		return
	}
	ctrl.invalidatePublic(ctx, "team")
	utils.JSON200(c, gin.H{"success": true})
}
