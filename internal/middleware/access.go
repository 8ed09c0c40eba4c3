package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/WalidElHadhri/PDS/internal/modules/model"
	"github.com/WalidElHadhri/PDS/internal/modules/serializer"
)

// ProjectAccess loads the project from the :id route param and permits the
// request when the authenticated user is the owner or a collaborator. On
// success the loaded project and the owner flag are set in the context so
// handlers never re-fetch.
func ProjectAccess(db *gorm.DB) gin.HandlerFunc {
	return projectGate(db, false)
}

// ProjectOwner permits only the project owner.
func ProjectOwner(db *gorm.DB) gin.HandlerFunc {
	return projectGate(db, true)
}

func projectGate(db *gorm.DB, ownerOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, serializer.NotFoundErr("Project not found"))
			return
		}

		ctx := c.Request.Context()
		var project model.Project
		if err := db.WithContext(ctx).Where("id = ?", projectID).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, serializer.NotFoundErr("Project not found"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr("Error checking project access", err))
			return
		}

		user, ok := c.MustGet("user").(*model.User)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr(""))
			return
		}

		isOwner := project.IsOwner(user.ID)
		if ownerOnly {
			if !isOwner {
				c.AbortWithStatusJSON(http.StatusForbidden, serializer.ForbiddenErr("Only project owner can perform this action"))
				return
			}
		} else if !project.HasAccess(user.ID) {
			c.AbortWithStatusJSON(http.StatusForbidden, serializer.ForbiddenErr("Access denied to this project"))
			return
		}

		span := trace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.SetAttributes(
				attribute.String("project_id", project.ID.String()),
				attribute.Bool("is_owner", isOwner),
			)
		}

		c.Set("project", &project)
		c.Set("is_owner", isOwner)
		c.Next()
	}
}
