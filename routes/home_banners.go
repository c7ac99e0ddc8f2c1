package routes

import (
	"net/http"

	"speshway-platform/middleware"
	"speshway-platform/models"
	"speshway-platform/services"
	"speshway-platform/utils"

	"github.com/gin-gonic/gin"
)

func SetupHomeBannerRoutes(api *gin.RouterGroup, svc *services.HomeBannerService, uploads *services.UploadService, maxUpload int64, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	banners := api.Group("/home-banners")

	banners.GET("", authMiddleware.OptionalAuth(), handleListHomeBanners(svc))
	banners.GET("/:id", handleGetHomeBanner(svc))

	admin := banners.Group("", authMiddleware.RequireAuth(), roleMiddleware.AdminGuard())
	upload := ImageUpload(uploads, services.BannerFolder, maxUpload, plainErrors)
	admin.POST("", upload, handleCreateHomeBanner(svc, uploads))
	admin.PUT("/:id", upload, handleUpdateHomeBanner(svc, uploads))
	admin.DELETE("/:id", handleDeleteHomeBanner(svc))
}

func handleListHomeBanners(svc *services.HomeBannerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		vis := services.VisibilityFor(middleware.GetRole(c), includeAll(c), models.RoleAdmin)
		banners, err := svc.List(ctx, vis)
		if err != nil {
			respondServiceError(c, plainErrors, "Banner not found", "Failed to fetch banners", err)
			return
		}
		c.JSON(http.StatusOK, banners)
	}
}

func handleGetHomeBanner(svc *services.HomeBannerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		banner, err := svc.Get(ctx, c.Param("id"))
		if err != nil {
			respondServiceError(c, plainErrors, "Banner not found", "Failed to fetch banner", err)
			return
		}
		c.JSON(http.StatusOK, banner)
	}
}

func handleCreateHomeBanner(svc *services.HomeBannerService, uploads *services.UploadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		image := uploadedImage(c)

		var in models.HomeBannerInput
		if err := c.ShouldBind(&in); err != nil {
			uploads.Discard(c.Request.Context(), image, "invalid banner form")
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		banner, err := svc.Create(ctx, in, image)
		if err != nil {
			respondServiceError(c, plainErrors, "Banner not found", "Failed to create banner", err)
			return
		}
		c.JSON(http.StatusCreated, banner)
	}
}

func handleUpdateHomeBanner(svc *services.HomeBannerService, uploads *services.UploadService) gin.HandlerFunc {
	return func(c *gin.Context) {
		image := uploadedImage(c)

		var in models.HomeBannerInput
		if err := c.ShouldBind(&in); err != nil {
			uploads.Discard(c.Request.Context(), image, "invalid banner form")
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		banner, err := svc.Update(ctx, c.Param("id"), in, image)
		if err != nil {
			respondServiceError(c, plainErrors, "Banner not found", "Failed to update banner", err)
			return
		}
		c.JSON(http.StatusOK, banner)
	}
}

func handleDeleteHomeBanner(svc *services.HomeBannerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		if err := svc.Delete(ctx, c.Param("id")); err != nil {
			respondServiceError(c, plainErrors, "Banner not found", "Failed to delete banner", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Banner removed"})
	}
}
