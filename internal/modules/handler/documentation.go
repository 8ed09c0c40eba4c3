package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WalidElHadhri/PDS/internal/modules/model"
	"github.com/WalidElHadhri/PDS/internal/modules/serializer"
	"github.com/WalidElHadhri/PDS/internal/modules/service"
)

// DocHandler serves the project documentation blob and the shared code file.
type DocHandler struct {
	svc service.ProjectService
}

func NewDocHandler(s service.ProjectService) *DocHandler {
	return &DocHandler{svc: s}
}

type DocumentationOutput struct {
	Documentation string `json:"documentation"`
}

// GetDocumentation godoc
//
//	@Summary		Get documentation
//	@Tags			documentation
//	@Produce		json
//	@Param			id	path	string	true	"Project id"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=handler.DocumentationOutput}
//	@Router			/projects/{id}/documentation [get]
func (h *DocHandler) GetDocumentation(c *gin.Context) {
	project, ok := c.MustGet("project").(*model.Project)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("project not found in context")))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: DocumentationOutput{Documentation: project.Documentation}})
}

type UpdateDocumentationReq struct {
	Documentation string `json:"documentation" binding:"max=10000"`
}

// UpdateDocumentation godoc
//
//	@Summary		Update documentation
//	@Description	Wholesale overwrite of the project's documentation text. Last write wins.
//	@Tags			documentation
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string							true	"Project id"
//	@Param			payload	body	handler.UpdateDocumentationReq	true	"UpdateDocumentation payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=handler.DocumentationOutput}
//	@Router			/projects/{id}/documentation [put]
func (h *DocHandler) UpdateDocumentation(c *gin.Context) {
	req := UpdateDocumentationReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	project, ok := c.MustGet("project").(*model.Project)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("project not found in context")))
		return
	}

	if err := h.svc.UpdateDocumentation(c.Request.Context(), project, req.Documentation); err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("Server error updating documentation", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{
		Message: "Documentation updated successfully",
		Data:    DocumentationOutput{Documentation: project.Documentation},
	})
}

// GetCodeFile godoc
//
//	@Summary		Get code file
//	@Description	Shared mutable code file used by the inline editor
//	@Tags			code-file
//	@Produce		json
//	@Param			id	path	string	true	"Project id"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.CodeFile}
//	@Router			/projects/{id}/code-file [get]
func (h *DocHandler) GetCodeFile(c *gin.Context) {
	project, ok := c.MustGet("project").(*model.Project)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("project not found in context")))
		return
	}

	cf := project.CodeFile.Data()
	if cf.Filename == "" {
		cf.Filename = model.DefaultCodeFilename
	}
	c.JSON(http.StatusOK, serializer.Response{Data: cf})
}

type UpdateCodeFileReq struct {
	Filename string `json:"filename" binding:"omitempty,max=100,codefilename" example:"Main.java"`
	Content  string `json:"content" binding:"max=20000"`
}

// UpdateCodeFile godoc
//
//	@Summary		Save code file
//	@Description	Wholesale overwrite of the shared code file. No merge or diff; last write wins.
//	@Tags			code-file
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string						true	"Project id"
//	@Param			payload	body	handler.UpdateCodeFileReq	true	"UpdateCodeFile payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.CodeFile}
//	@Router			/projects/{id}/code-file [put]
func (h *DocHandler) UpdateCodeFile(c *gin.Context) {
	req := UpdateCodeFileReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	project, ok := c.MustGet("project").(*model.Project)
	if !ok {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("project not found in context")))
		return
	}

	cf, err := h.svc.UpdateCodeFile(c.Request.Context(), project, req.Filename, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("Server error updating code file", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Message: "Code file saved successfully", Data: cf})
}
