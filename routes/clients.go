package routes

import (
	"net/http"

	"speshway-platform/middleware"
	"speshway-platform/models"
	"speshway-platform/services"
	"speshway-platform/utils"

	"github.com/gin-gonic/gin"
)

// clientListRoles may list inactive clients with ?all=true.
var clientListRoles = []string{models.RoleAdmin, models.RoleHR}

func SetupClientRoutes(api *gin.RouterGroup, svc *services.ClientService, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	clients := api.Group("/clients")

	clients.GET("", authMiddleware.OptionalAuth(), handleListClients(svc))
	clients.GET("/:id", handleGetClient(svc))

	admin := clients.Group("", authMiddleware.RequireAuth(), roleMiddleware.AdminGuard())
	admin.POST("", handleCreateClient(svc))
	admin.PUT("/:id", handleUpdateClient(svc))
	admin.DELETE("/:id", handleDeleteClient(svc))
}

func handleListClients(svc *services.ClientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		vis := services.VisibilityFor(middleware.GetRole(c), includeAll(c), clientListRoles...)
		clients, err := svc.List(ctx, vis)
		if err != nil {
			respondServiceError(c, plainErrors, "Client not found", "Failed to fetch clients", err)
			return
		}
		c.JSON(http.StatusOK, clients)
	}
}

func handleGetClient(svc *services.ClientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		client, err := svc.Get(ctx, c.Param("id"))
		if err != nil {
			respondServiceError(c, plainErrors, "Client not found", "Failed to fetch client", err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

func handleCreateClient(svc *services.ClientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateClientRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		client, err := svc.Create(ctx, req)
		if err != nil {
			respondServiceError(c, plainErrors, "Client not found", "Failed to create client", err)
			return
		}
		c.JSON(http.StatusCreated, client)
	}
}

func handleUpdateClient(svc *services.ClientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UpdateClientRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request body", err.Error())
			return
		}

		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		client, err := svc.Update(ctx, c.Param("id"), req)
		if err != nil {
			respondServiceError(c, plainErrors, "Client not found", "Failed to update client", err)
			return
		}
		c.JSON(http.StatusOK, client)
	}
}

func handleDeleteClient(svc *services.ClientService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := utils.WithTimeout(c.Request.Context())
		defer cancel()

		if err := svc.Delete(ctx, c.Param("id")); err != nil {
			respondServiceError(c, plainErrors, "Client not found", "Failed to delete client", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Client removed"})
	}
}
