package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/WalidElHadhri/PDS/internal/modules/model"
	"github.com/WalidElHadhri/PDS/internal/modules/serializer"
	"github.com/WalidElHadhri/PDS/internal/modules/service"
)

type CollaboratorHandler struct {
	svc service.ProjectService
}

func NewCollaboratorHandler(s service.ProjectService) *CollaboratorHandler {
	return &CollaboratorHandler{svc: s}
}

type AddCollaboratorReq struct {
	Email string `json:"email" binding:"required,email" example:"amine@example.com"`
}

// AddCollaborator godoc
//
//	@Summary		Add collaborator
//	@Description	Owner only. Invite an existing user to the project by email.
//	@Tags			collaborator
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string						true	"Project id"
//	@Param			payload	body	handler.AddCollaboratorReq	true	"AddCollaborator payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=service.ProjectView}
//	@Router			/projects/{id}/collaborators [post]
func (h *CollaboratorHandler) AddCollaborator(c *gin.Context) {
	req := AddCollaboratorReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	project, ok := c.MustGet("project").(*model.Project)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("project not found in context")))
		return
	}

	out, err := h.svc.AddCollaborator(c.Request.Context(), project, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, serializer.NotFoundErr("User not found"))
		case errors.Is(err, service.ErrAlreadyCollaborator):
			c.JSON(http.StatusBadRequest, serializer.ParamErr("User is already a collaborator or owner of this project", nil))
		default:
			c.JSON(http.StatusInternalServerError, serializer.DBErr("Server error adding collaborator", err))
		}
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Message: "Collaborator added successfully", Data: out})
}

// RemoveCollaborator godoc
//
//	@Summary		Remove collaborator
//	@Description	Owner only. The owner cannot be removed. Removing a user who is not a collaborator succeeds.
//	@Tags			collaborator
//	@Produce		json
//	@Param			id		path	string	true	"Project id"
//	@Param			userId	path	string	true	"Collaborator user id"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ProjectView}
//	@Router			/projects/{id}/collaborators/{userId} [delete]
func (h *CollaboratorHandler) RemoveCollaborator(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("Invalid user id", err))
		return
	}

	project, ok := c.MustGet("project").(*model.Project)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("project not found in context")))
		return
	}

	out, err := h.svc.RemoveCollaborator(c.Request.Context(), project, userID)
	if err != nil {
		if errors.Is(err, service.ErrOwnerRemoval) {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("Cannot remove project owner", nil))
			return
		}
		c.JSON(http.StatusInternalServerError, serializer.DBErr("Server error removing collaborator", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Message: "Collaborator removed successfully", Data: out})
}
