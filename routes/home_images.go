package routes

import (
	"net/http"

	"speshway-platform/middleware"
	"speshway-platform/models"
	"speshway-platform/services"
	"speshway-platform/utils"

	"github.com/gin-gonic/gin"
)

// Home image responses are wrapped in {success, message?, data}.
func SetupHomeImageRoutes(api *gin.RouterGroup, svc *services.HomeImageService, uploads *services.UploadService, maxUpload int64, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	images := api.Group("/home-images")

	images.GET("", authMiddleware.OptionalAuth(), handleListHomeImages(svc))
	images.GET("/:id", handleGetHomeImage(svc))

	admin := images.Group("", authMiddleware.RequireAuth(), roleMiddleware.AdminGuard())
	upload := ImageUpload(uploads, services.HomeImageFolder, maxUpload, successEnvelopeErrors)
	admin.POST("", upload, handleCreateHomeImage(svc, uploads))
	admin.PUT("/:id", upload, handleUpdateHomeImage(svc, uploads))
	admin.DELETE("/:id", handleDeleteHomeImage(svc))
}

func handleListHomeImages(svc *services.HomeImageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		vis := services.VisibilityFor(middleware.GetRole(c), includeAll(c), models.RoleAdmin)
		images, err := svc.List(ctx, vis)
		if err != nil {
			respondServiceError(c, successEnvelopeErrors, "Home image not found", "Failed to fetch home images", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": images})
	}
}

func handleGetHomeImage(svc *services.HomeImageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		image, err := svc.Get(ctx, c.Param("id"))
		if err != nil {
			respondServiceError(c, successEnvelopeErrors, "Home image not found", "Failed to fetch home image", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": image})
	}
}

func handleCreateHomeImage(svc *services.HomeImageService, uploads *services.UploadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		image := uploadedImage(c)

		var in models.HomeImageInput
		if err := c.ShouldBind(&in); err != nil {
			uploads.Discard(c.Request.Context(), image, "invalid home image form")
			successEnvelopeErrors(c, http.StatusBadRequest, "bad_request", "Invalid request body", err.Error())
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		created, err := svc.Create(ctx, in, image, middleware.GetUserID(c))
		if err != nil {
			respondServiceError(c, successEnvelopeErrors, "Home image not found", "Failed to create home image", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Home image created successfully",
			"data":    created,
		})
	}
}

func handleUpdateHomeImage(svc *services.HomeImageService, uploads *services.UploadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		image := uploadedImage(c)

		var in models.HomeImageInput
		if err := c.ShouldBind(&in); err != nil {
			uploads.Discard(c.Request.Context(), image, "invalid home image form")
			successEnvelopeErrors(c, http.StatusBadRequest, "bad_request", "Invalid request body", err.Error())
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		updated, err := svc.Update(ctx, c.Param("id"), in, image)
		if err != nil {
			respondServiceError(c, successEnvelopeErrors, "Home image not found", "Failed to update home image", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Home image updated successfully",
			"data":    updated,
		})
	}
}

func handleDeleteHomeImage(svc *services.HomeImageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		if err := svc.Delete(ctx, c.Param("id")); err != nil {
			respondServiceError(c, successEnvelopeErrors, "Home image not found", "Failed to delete home image", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Home image deleted successfully",
		})
	}
}
