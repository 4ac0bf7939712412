// Package router wires the Gin engine with all routes and middlewares.
package router

import (
	"net/http"

	"farm-management/internal/auth"
	"farm-management/internal/controller"
	"farm-management/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Auth       *controller.AuthController
	Tenancy    *controller.TenancyController
	Production *controller.ProductionController
	Finance    *controller.FinanceController
	Stock      *controller.StockController
	Dashboard  *controller.DashboardController
	Reference  *controller.ReferenceController
}

// New wires the Gin engine. Everything under /v1 except the auth routes
// requires a valid bearer token.
func New(c Controllers, jwtSecret string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.StructuredLoggingMiddleware(logger))

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", middleware.MetricsHandler)

	v1 := r.Group("/v1")

	v1.POST("/auth/register", c.Auth.Register)
	v1.POST("/auth/login", c.Auth.Login)

	authed := v1.Group("")
	authed.Use(auth.Middleware(jwtSecret))

	authed.POST("/auth/refresh", c.Auth.Refresh)

	authed.POST("/enterprises", c.Tenancy.CreateEnterprise)
	authed.GET("/enterprises", c.Tenancy.ListEnterprises)
	authed.GET("/enterprises/:id", c.Tenancy.GetEnterprise)
	authed.PATCH("/enterprises/:id", c.Tenancy.UpdateEnterprise)
	authed.DELETE("/enterprises/:id", c.Tenancy.DeleteEnterprise)

	authed.POST("/memberships", c.Tenancy.AddMember)
	authed.GET("/memberships", c.Tenancy.ListMembers)
	authed.PATCH("/memberships/:id", c.Tenancy.UpdateMember)
	authed.DELETE("/memberships/:id", c.Tenancy.RemoveMember)

	authed.POST("/farms", c.Tenancy.CreateFarm)
	authed.GET("/farms", c.Tenancy.ListFarms)
	authed.GET("/farms/:id", c.Tenancy.GetFarm)
	authed.PATCH("/farms/:id", c.Tenancy.UpdateFarm)
	authed.DELETE("/farms/:id", c.Tenancy.DeleteFarm)

	authed.POST("/units", c.Production.CreateUnit)
	authed.GET("/units", c.Production.ListUnits)
	authed.GET("/units/:id", c.Production.GetUnit)
	authed.PATCH("/units/:id", c.Production.UpdateUnit)
	authed.DELETE("/units/:id", c.Production.DeleteUnit)

	authed.POST("/lots", c.Production.CreateLot)
	authed.GET("/lots", c.Production.ListLots)
	authed.GET("/lots/:id", c.Production.GetLot)
	authed.PATCH("/lots/:id", c.Production.UpdateLot)
	authed.DELETE("/lots/:id", c.Production.DeleteLot)

	authed.POST("/lot-records", c.Production.CreateDailyRecord)
	authed.GET("/lot-records", c.Production.ListDailyRecords)
	authed.GET("/lot-records/:id", c.Production.GetDailyRecord)
	authed.PATCH("/lot-records/:id", c.Production.UpdateDailyRecord)
	authed.DELETE("/lot-records/:id", c.Production.DeleteDailyRecord)

	authed.POST("/health-events", c.Production.CreateHealthEvent)
	authed.GET("/health-events", c.Production.ListHealthEvents)
	authed.PATCH("/health-events/:id", c.Production.UpdateHealthEvent)
	authed.DELETE("/health-events/:id", c.Production.DeleteHealthEvent)

	authed.POST("/reproduction-events", c.Production.CreateReproductionEvent)
	authed.GET("/reproduction-events", c.Production.ListReproductionEvents)
	authed.PATCH("/reproduction-events/:id", c.Production.UpdateReproductionEvent)
	authed.DELETE("/reproduction-events/:id", c.Production.DeleteReproductionEvent)

	authed.POST("/financial-entries", c.Finance.Create)
	authed.GET("/financial-entries", c.Finance.List)
	authed.GET("/financial-entries/:id", c.Finance.Get)
	authed.PATCH("/financial-entries/:id", c.Finance.Update)
	authed.DELETE("/financial-entries/:id", c.Finance.Delete)

	authed.POST("/stock-items", c.Stock.CreateItem)
	authed.GET("/stock-items", c.Stock.ListItems)
	authed.GET("/stock-items/:id", c.Stock.GetItem)
	authed.PATCH("/stock-items/:id", c.Stock.UpdateItem)
	authed.DELETE("/stock-items/:id", c.Stock.DeleteItem)

	authed.POST("/stock-movements", c.Stock.CreateMovement)
	authed.GET("/stock-movements", c.Stock.ListMovements)

	authed.GET("/breeding-types", c.Reference.ListBreedingTypes)
	authed.GET("/species", c.Reference.ListSpecies)

	authed.GET("/dashboard/summary", c.Dashboard.GetSummary)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}
