package handlers

import "github.com/gin-gonic/gin"

// Handlers groups every API handler.
type Handlers struct {
	Payment     *PaymentHandler
	Transaction *TransactionHandler
	Goal        *GoalHandler
	Limit       *LimitHandler
	Blocklist   *BlocklistHandler
	Overview    *OverviewHandler
	Data        *DataHandler
}

// RegisterRoutes mounts the API on rg (normally /api/v1).
func RegisterRoutes(rg *gin.RouterGroup, h Handlers) {
	payments := rg.Group("/payments")
	payments.POST("", h.Payment.SubmitPayment)
	payments.POST("/qr", h.Payment.SubmitQRPayment)
	payments.GET("/:id", h.Payment.GetPayment)
	payments.POST("/:id/override", h.Payment.RequestOverride)
	payments.POST("/:id/override/confirm", h.Payment.ConfirmOverride)
	payments.POST("/:id/cancel", h.Payment.CancelPayment)

	transactions := rg.Group("/transactions")
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/summary", h.Transaction.GetSummary)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	goals := rg.Group("/goals")
	goals.POST("", h.Goal.CreateGoal)
	goals.GET("", h.Goal.GetGoals)
	goals.GET("/:id", h.Goal.GetGoal)
	goals.POST("/:id/contributions", h.Goal.Contribute)
	goals.DELETE("/:id", h.Goal.DeleteGoal)

	limits := rg.Group("/limits")
	limits.POST("", h.Limit.CreateLimit)
	limits.GET("", h.Limit.GetLimits)
	limits.GET("/progress", h.Limit.GetProgress)
	limits.GET("/settings", h.Limit.GetSettings)
	limits.PUT("/settings", h.Limit.UpdateSettings)
	limits.POST("/evaluate", h.Limit.Evaluate)
	limits.PUT("/:id", h.Limit.UpdateLimit)
	limits.DELETE("/:id", h.Limit.DeleteLimit)

	blocklist := rg.Group("/blocklist")
	blocklist.GET("", h.Blocklist.GetBlocklist)
	blocklist.POST("", h.Blocklist.BlockPayee)
	blocklist.GET("/check", h.Blocklist.CheckPayee)
	blocklist.DELETE("/:payee", h.Blocklist.UnblockPayee)

	rg.GET("/overview", h.Overview.GetOverview)

	rg.POST("/data/seed", h.Data.Seed)
	rg.DELETE("/data", h.Data.ClearAll)
	rg.GET("/audit", h.Data.GetAuditLog)
}
