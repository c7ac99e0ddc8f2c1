package routes

import (
	"fmt"
	"net/http"
	"time"

	"speshway-platform/middleware"
	"speshway-platform/models"
	"speshway-platform/services"
	"speshway-platform/utils"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SetupSentenceRoutes registers the sentence resource. createLimit throttles
// the public submission endpoint; pass nil to leave it unthrottled.
func SetupSentenceRoutes(api *gin.RouterGroup, svc *services.SentenceService, exporter *services.ExportService, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware, createLimit gin.HandlerFunc) {
	sentences := api.Group("/sentences")

	admin := sentences.Group("", authMiddleware.RequireAuth(), roleMiddleware.AdminGuard())
	// Registered before /:id so "export" is not taken for an id.
	admin.GET("/export", handleExportSentences(exporter))

	sentences.GET("", handleListSentences(svc))
	sentences.GET("/:id", handleGetSentence(svc))

	create := []gin.HandlerFunc{handleCreateSentence(svc)}
	if createLimit != nil {
		create = append([]gin.HandlerFunc{createLimit}, create...)
	}
	sentences.POST("", create...)

	admin.PUT("/:id", handleUpdateSentence(svc))
	admin.DELETE("/:id", handleDeleteSentence(svc))
}

func handleListSentences(svc *services.SentenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		sentences, err := svc.List(ctx)
		if err != nil {
			respondServiceError(c, plainErrors, "Sentence not found", "Failed to fetch sentences", err)
			return
		}
		c.JSON(http.StatusOK, sentences)
	}
}

func handleGetSentence(svc *services.SentenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		sentence, err := svc.Get(ctx, c.Param("id"))
		if err != nil {
			respondServiceError(c, plainErrors, "Sentence not found", "Failed to fetch sentence", err)
			return
		}
		c.JSON(http.StatusOK, sentence)
	}
}

func handleCreateSentence(svc *services.SentenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateSentenceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		sentence, err := svc.Create(ctx, req, c.Request.UserAgent())
		if err != nil {
			respondServiceError(c, plainErrors, "Sentence not found", "Failed to record sentence", err)
			return
		}
		c.JSON(http.StatusCreated, sentence)
	}
}

func handleUpdateSentence(svc *services.SentenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateSentenceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		sentence, err := svc.Update(ctx, c.Param("id"), req)
		if err != nil {
			respondServiceError(c, plainErrors, "Sentence not found", "Failed to update sentence", err)
			return
		}
		c.JSON(http.StatusOK, sentence)
	}
}

func handleDeleteSentence(svc *services.SentenceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		if err := svc.Delete(ctx, c.Param("id")); err != nil {
			respondServiceError(c, plainErrors, "Sentence not found", "Failed to delete sentence", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Sentence removed"})
	}
}

func handleExportSentences(exporter *services.ExportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithLongTimeout(c.Request.Context())
		defer cancel()

		filename := fmt.Sprintf("sentences_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
		c.Header("Content-Type", xlsxContentType)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		rows, err := exporter.WriteSentencesXLSX(ctx, c.Writer)
		if err != nil {
			if !c.Writer.Written() {
				c.Header("Content-Disposition", "")
				c.Header("Content-Type", "")
				respondServiceError(c, plainErrors, "Sentence not found", "Failed to export sentences", err)
				return
			}
			middleware.GetLogger(c).Error("Sentence export aborted", "error", err)
			return
		}
		middleware.GetLogger(c).Info("Exported sentences", "rows", rows)
	}
}
