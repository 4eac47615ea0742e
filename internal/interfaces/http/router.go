package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/pedidos-pro/internal/application/auth"
	"github.com/tu-usuario/pedidos-pro/internal/application/orders"
	"github.com/tu-usuario/pedidos-pro/internal/application/usecase"
	"github.com/tu-usuario/pedidos-pro/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CustomerUC  *usecase.CustomerUseCase
	ProductUC   *usecase.ProductUseCase
	CreateOrder *orders.CreateOrderUseCase
	Fulfillment *orders.FulfillmentUseCase
	PickingList *orders.PickingListUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Orders (protegido)
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.CreateOrder, deps.Fulfillment, deps.PickingList)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/number/:number", orderHandler.GetByNumber)
	ordersGroup.Get("/:id", orderHandler.GetByID)

	// Fulfillment: las transiciones de bodega requieren rol operativo.
	fulfillment := ordersGroup.Group("/:id/fulfillment",
		RequireRole(entity.RoleAdmin, entity.RoleBodeguero))
	fulfillment.Post("/start-picking", orderHandler.StartPicking)
	fulfillment.Post("/complete-picking", orderHandler.CompletePicking)
	fulfillment.Post("/ship", orderHandler.Ship)
	fulfillment.Post("/deliver", orderHandler.Deliver)
	fulfillment.Post("/partial", orderHandler.MarkPartial)
	fulfillment.Post("/rollback", orderHandler.Rollback)

	// Despacho por lote (protegido, rol operativo)
	ordersGroup.Post("/bulk/ship",
		RequireRole(entity.RoleAdmin, entity.RoleBodeguero),
		orderHandler.BulkShip)

	// Lista de alistamiento en PDF (protegido)
	ordersGroup.Get("/:id/picking-list", orderHandler.DownloadPickingList)
}
