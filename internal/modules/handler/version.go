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

type VersionHandler struct {
	svc service.VersionService
}

func NewVersionHandler(s service.VersionService) *VersionHandler {
	return &VersionHandler{svc: s}
}

// ListVersions godoc
//
//	@Summary		List versions
//	@Description	All versions of the project, newest first, plus the current-version pointer
//	@Tags			version
//	@Produce		json
//	@Param			id	path	string	true	"Project id"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListVersionsOutput}
//	@Router			/projects/{id}/versions [get]
func (h *VersionHandler) ListVersions(c *gin.Context) {
	project, ok := c.MustGet("project").(*model.Project)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("project not found in context")))
		return
	}

	out, err := h.svc.List(c.Request.Context(), project)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type CreateVersionReq struct {
	VersionNumber string `json:"version_number" binding:"required,max=50" example:"v1.2"`
	Description   string `json:"description" binding:"omitempty,max=500"`
}

// CreateVersion godoc
//
//	@Summary		Create version
//	@Description	Records a labeled version with a snapshot of the shared code file taken now. The current-version pointer is not changed.
//	@Tags			version
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string						true	"Project id"
//	@Param			payload	body	handler.CreateVersionReq	true	"CreateVersion payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=service.VersionView}
//	@Router			/projects/{id}/versions [post]
func (h *VersionHandler) CreateVersion(c *gin.Context) {
	req := CreateVersionReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	project, ok := c.MustGet("project").(*model.Project)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("project not found in context")))
		return
	}
	user, ok := c.MustGet("user").(*model.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	out, err := h.svc.Create(c.Request.Context(), project, user, service.CreateVersionInput{
		VersionNumber: req.VersionNumber,
		Description:   req.Description,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("Server error creating version", err))
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Message: "Version created successfully", Data: out})
}

// SetCurrentVersion godoc
//
//	@Summary		Set current version
//	@Description	Points the project at an existing version. When the version carries a non-empty code snapshot the shared code file is restored from it; otherwise the shared file is left untouched.
//	@Tags			version
//	@Produce		json
//	@Param			id			path	string	true	"Project id"
//	@Param			versionId	path	string	true	"Version id"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/projects/{id}/versions/{versionId}/current [put]
func (h *VersionHandler) SetCurrentVersion(c *gin.Context) {
	versionID, err := uuid.Parse(c.Param("versionId"))
	if err != nil {
		c.JSON(http.StatusNotFound, serializer.NotFoundErr("Version not found"))
		return
	}

	project, ok := c.MustGet("project").(*model.Project)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("project not found in context")))
		return
	}

	out, err := h.svc.SetCurrent(c.Request.Context(), project, versionID)
	if err != nil {
		if errors.Is(err, service.ErrVersionNotFound) {
			c.JSON(http.StatusNotFound, serializer.NotFoundErr("Version not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, serializer.DBErr("Server error setting current version", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Message: "Current version updated successfully", Data: out})
}
