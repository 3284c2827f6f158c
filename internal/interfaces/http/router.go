package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/campus-store/internal/application/auth"
	"github.com/jhoicas/campus-store/internal/application/store"
	"github.com/jhoicas/campus-store/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	Ledger      *store.ApplyStockTransactionUseCase
	ItemUC      *store.ItemUseCase
	ReportUC    *store.ReportUseCase
	RequestUC   *store.RequestUseCase
	JWTSecret   string
	ServiceName string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)
	storeWriters := RequireRole(entity.RoleAdmin, entity.RoleStorekeeper)

	// Auth: login público, registro solo admin
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", requireAuth, RequireRole(entity.RoleAdmin), authHandler.Register)

	// Almacén (protegido)
	st := api.Group("/store", requireAuth)

	itemHandler := NewItemHandler(deps.ItemUC)
	txHandler := NewTransactionHandler(deps.Ledger, deps.ReportUC, deps.ItemUC)
	reportHandler := NewReportHandler(deps.ReportUC)
	requestHandler := NewRequestHandler(deps.RequestUC)

	st.Get("/categories", reportHandler.Categories)

	items := st.Group("/items")
	items.Get("/", itemHandler.List)
	items.Post("/", storeWriters, itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", storeWriters, itemHandler.Update)
	items.Patch("/:id/status", storeWriters, itemHandler.SetStatus)
	items.Get("/:id/transactions", txHandler.ItemHistory)

	txs := st.Group("/transactions")
	txs.Post("/", storeWriters, txHandler.Apply)
	txs.Get("/", txHandler.List)
	txs.Get("/:id", txHandler.GetByID)

	reports := st.Group("/reports")
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/valuation", reportHandler.Valuation)

	requests := st.Group("/requests")
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Post("/:id/approve", storeWriters, requestHandler.Approve)
	requests.Post("/:id/reject", storeWriters, requestHandler.Reject)
}
