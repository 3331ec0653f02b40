package routes

import (
	"github.com/PvtMilo/WMS-demo/controllers"
	"github.com/PvtMilo/WMS-demo/middlewares"
	"github.com/PvtMilo/WMS-demo/models"
	"github.com/PvtMilo/WMS-demo/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, svc *service.Services, resolver service.CallerResolver) {
	h := controllers.New(db, svc)

	api := r.Group("/api")
	{
		// ================= AUTH =================
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Login)
			auth.GET("/me", middlewares.AuthMiddleware(resolver), h.Me)
		}

		// Semua di bawah butuh token
		secured := api.Group("/", middlewares.AuthMiddleware(resolver))

		// Manajemen user (admin)
		admin := secured.Group("/admin", middlewares.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", h.ListUsers)
			admin.POST("/users", h.CreateUser)
		}

		// ================= ITEMS =================
		items := secured.Group("/items")
		{
			items.POST("/batch_create", h.BatchCreateItems)
			items.GET("", h.ListItems)

			items.POST("/bulk_update_condition", h.BulkUpdateCondition)
			items.POST("/mark_lost", h.MarkLost)
			items.POST("/repair", h.RepairItem)
			items.GET("/repair_history", h.RepairHistory)
			items.GET("/maintenance_list", h.MaintenanceList)
			items.GET("/summary_by_category", h.SummaryByCategory)

			items.GET("/:code", h.GetItem)
			items.PUT("/:code", h.UpdateItem)
			items.DELETE("/:code", h.DeleteItem)
			items.GET("/:code/lost_context", h.LostContext)
		}

		// ================= CONTAINERS =================
		containers := secured.Group("/containers")
		{
			containers.POST("", h.CreateContainer)
			containers.GET("", h.ListContainers)
			containers.GET("/metrics", h.ContainerMetrics)
			containers.GET("/outstanding_items", h.OutstandingItems)

			containers.GET("/:id", h.GetContainer)
			containers.POST("/:id/set_status", h.SetContainerStatus)

			// ledger
			containers.POST("/:id/add_items", h.AddItems)
			containers.POST("/:id/void_item", h.VoidItem)
			containers.POST("/:id/checkin", h.CheckIn)

			// surat jalan
			containers.POST("/:id/submit_dn", h.SubmitDN)
			containers.GET("/:id/dn_latest", h.LatestDN)
			containers.GET("/:id/dn_list", h.ListDN)
			containers.GET("/:id/dn/:version", h.DNByVersion)
		}

		// ================= EMONEY =================
		emoney := secured.Group("/emoney")
		{
			emoney.POST("", h.CreateEmoney)
			emoney.GET("", h.ListEmoney)
			emoney.GET("/tx", h.EmoneyTxInRange)
			emoney.GET("/tx_by_container/:cid", h.EmoneyTxByContainer)

			emoney.GET("/:id", h.GetEmoney)
			emoney.POST("/:id/tx", h.AddEmoneyTx)
			emoney.POST("/:id/set_status", h.SetEmoneyStatus)
			emoney.DELETE("/:id", middlewares.RequireRole(models.RoleAdmin), h.DeleteEmoney)
		}
	}
}
