package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WalidElHadhri/PDS/internal/modules/model"
	"github.com/WalidElHadhri/PDS/internal/modules/serializer"
	"github.com/WalidElHadhri/PDS/internal/modules/service"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

type ListProjectsReq struct {
	Limit  *int   `form:"limit" json:"limit" binding:"omitempty,min=0,max=200" example:"20"`
	Cursor string `form:"cursor" json:"cursor"`
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	Get all projects the current user owns or collaborates on, newest activity first. If limit is not provided or 0, all projects are returned.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			limit	query	integer	false	"Limit of projects to return. Max 200."
//	@Param			cursor	query	string	false	"Cursor from the previous response"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListProjectsOutput}
//	@Router			/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	req := ListProjectsReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	user, ok := c.MustGet("user").(*model.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	limit := 0
	if req.Limit != nil {
		limit = *req.Limit
	}

	out, err := h.svc.List(c.Request.Context(), service.ListProjectsInput{
		UserID: user.ID,
		Limit:  limit,
		Cursor: req.Cursor,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type CreateProjectReq struct {
	Name        string `json:"name" binding:"required,max=100" example:"Compiler lab"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Create a project owned by the current user
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateProjectReq	true	"CreateProject payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=service.ProjectView}
//	@Router			/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	req := CreateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	user, ok := c.MustGet("user").(*model.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	out, err := h.svc.Create(c.Request.Context(), user, req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("Server error creating project", err))
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Message: "Project created successfully", Data: out})
}

// GetProject godoc
//
//	@Summary		Get project
//	@Tags			project
//	@Produce		json
//	@Param			id	path	string	true	"Project id"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ProjectView}
//	@Router			/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := c.MustGet("project").(*model.Project)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("project not found in context")))
		return
	}

	out, err := h.svc.View(c.Request.Context(), project)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type UpdateProjectReq struct {
	Name        *string `json:"name" binding:"omitnil,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// UpdateProject godoc
//
//	@Summary		Update project
//	@Description	Partial update of name and description
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string						true	"Project id"
//	@Param			payload	body	handler.UpdateProjectReq	true	"UpdateProject payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ProjectView}
//	@Router			/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	req := UpdateProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	project, ok := c.MustGet("project").(*model.Project)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("project not found in context")))
		return
	}

	out, err := h.svc.Update(c.Request.Context(), project, req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("Server error updating project", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Message: "Project updated successfully", Data: out})
}

// DeleteProject godoc
//
//	@Summary		Delete project
//	@Description	Owner only. Versions are removed with the project.
//	@Tags			project
//	@Produce		json
//	@Param			id	path	string	true	"Project id"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	project, ok := c.MustGet("project").(*model.Project)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("project not found in context")))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), project.ID); err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("Server error deleting project", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Message: "Project deleted successfully"})
}
