// Package routes wires repositories, services, and handlers together and
// registers every HTTP route. All dependencies are constructed here and
// passed down explicitly.
package routes

import (
	"context"
	"time"

	"splitbuy/internal/config"
	"splitbuy/internal/handlers"
	"splitbuy/internal/middleware"
	"splitbuy/internal/models"
	"splitbuy/internal/repositories"
	"splitbuy/internal/repositories/cache"
	"splitbuy/internal/services/auth"
	"splitbuy/internal/services/card"
	"splitbuy/internal/services/group"
	"splitbuy/internal/services/media"
	"splitbuy/internal/services/notification"
	"splitbuy/internal/services/paystack"
	"splitbuy/internal/services/product"
	"splitbuy/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// groupOpenerProxy breaks the construction cycle between the product
// catalog and the group engine: the catalog needs an opener, the engine
// needs the catalog. The target is set once both exist.
type groupOpenerProxy struct {
	target group.Service
}

func (p *groupOpenerProxy) OpenInitialGroup(ctx context.Context, prod *models.Product, groupType string, expiresAt *time.Time) (*models.Group, error) {
	return p.target.OpenInitialGroup(ctx, prod, groupType, expiresAt)
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB, cacheService *cache.CacheService) {
	// Repositories
	userRepo := repositories.NewUserRepository(db, cacheService)
	walletRepo := repositories.NewWalletRepository(db)
	groupRepo := repositories.NewGroupRepository(db)
	productRepo := repositories.NewProductRepository(db)
	addressRepo := repositories.NewAddressRepository(db)
	vendorRepo := repositories.NewVendorRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	cardRepo := repositories.NewCardRepository(db)

	// Services
	authService := auth.NewService(userRepo)

	gateway := paystack.NewClient(config.GetEnv("PAYSTACK_SECRET_KEY", ""))
	walletService := wallet.NewService(
		walletRepo,
		gateway,
		wallet.Config{},
		&wallet.NoopMetricsCollector{},
		config.AppURL(),
	)

	dispatcher := notification.NewDispatcher(notificationRepo)

	opener := &groupOpenerProxy{}
	productService := product.NewService(productRepo, vendorRepo, opener)
	groupService := group.NewService(groupRepo, userRepo, productService, dispatcher, cacheService)
	opener.target = groupService

	cardService := card.NewService(cardRepo, card.NewStripeTokenizer())
	mediaService := media.NewService()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	walletHandler := handlers.NewWalletHandler(walletService)
	paymentHandler := handlers.NewPaymentHandler(walletService)
	webhookHandler := handlers.NewWebhookHandler(walletService, config.GetEnv("PAYSTACK_SECRET_KEY", ""))
	groupHandler := handlers.NewGroupHandler(groupService)
	productHandler := handlers.NewProductHandler(productService, productRepo)
	addressHandler := handlers.NewAddressHandler(addressRepo)
	deliveryHandler := handlers.NewDeliveryAddressHandler(addressRepo, groupRepo, productRepo)
	vendorHandler := handlers.NewVendorHandler(vendorRepo, productRepo)
	cardHandler := handlers.NewCardHandler(cardService)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	healthHandler := handlers.NewHealthHandler(db, cacheService)

	// Root and health
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to SplitBuy API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", healthHandler.HealthCheck)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)

	api.Post("/deposit", paymentHandler.Deposit)
	api.Get("/verify", paymentHandler.VerifyPayment)
	api.Post("/webhook", webhookHandler.HandlePaystackWebhook)
	api.Post("/paystack-webhook", webhookHandler.HandlePaystackWebhook)

	api.Get("/resolve-image", mediaHandler.ResolveImage)
	api.Get("/thumbnail", mediaHandler.Thumbnail)

	api.Get("/products", productHandler.ListLiveProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Get("/products/:productId/groups", groupHandler.GetGroupsByProduct)

	// Authenticated endpoints
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.LogoutUser)
	protected.Post("/change-password", authHandler.ChangePassword)
	protected.Get("/me", authHandler.Me)

	// Wallet
	protected.Get("/wallet", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetBalance)
	protected.Post("/fund-wallet", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.FundWallet)
	protected.Get("/transactions", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetTransactionHistory)
	protected.Post("/group-payment", middleware.HasPermission(models.PermissionWalletWrite), paymentHandler.GroupPayment)

	// Groups
	protected.Post("/groups", middleware.HasPermission(models.PermissionProductWrite), groupHandler.CreateGroup)
	protected.Get("/groups", groupHandler.GetMyGroups)
	protected.Get("/groups/awaiting-votes", groupHandler.GetGroupsAwaitingVotes)
	protected.Get("/groups/:id", groupHandler.GetGroup)
	protected.Get("/groups/:id/status-log", groupHandler.GetStatusLog)
	protected.Post("/groups/:id/join", middleware.HasPermission(models.PermissionGroupJoin), groupHandler.JoinGroup)
	protected.Post("/groups/:id/leave", middleware.HasPermission(models.PermissionGroupJoin), groupHandler.LeaveGroup)
	protected.Post("/groups/:id/vote", middleware.HasPermission(models.PermissionGroupVote), groupHandler.CastVote)

	// Delivery addresses
	protected.Post("/groups/:id/members/:memberId/delivery-address", deliveryHandler.SubmitDeliveryAddress)
	protected.Get("/groups/:id/members/:memberId/delivery-address", deliveryHandler.GetDeliveryAddress)
	protected.Get("/groups/:id/delivery-addresses", middleware.HasPermission(models.PermissionFulfilment), deliveryHandler.ListGroupDeliveryAddresses)

	// Products
	protected.Post("/products", middleware.HasPermission(models.PermissionProductWrite), productHandler.CreateProduct)
	protected.Patch("/products/:id", middleware.HasPermission(models.PermissionProductWrite), productHandler.PatchProduct)
	protected.Get("/my-products", middleware.HasPermission(models.PermissionProductWrite), productHandler.ListMyProducts)

	// Address book
	profile := protected.Group("/profile")
	profile.Get("/addresses", addressHandler.ListAddresses)
	profile.Post("/addresses", addressHandler.CreateAddress)
	profile.Put("/addresses/:id", addressHandler.UpdateAddress)
	profile.Delete("/addresses/:id", addressHandler.DeleteAddress)
	profile.Post("/addresses/:id/default", addressHandler.SetDefaultAddress)

	// User-managed vendors
	protected.Get("/user-vendors", middleware.HasPermission(models.PermissionVendorManage), vendorHandler.ListVendors)
	protected.Post("/user-vendors", middleware.HasPermission(models.PermissionVendorManage), vendorHandler.CreateVendor)
	protected.Get("/user-vendors/:id", middleware.HasPermission(models.PermissionVendorManage), vendorHandler.GetVendor)
	protected.Put("/user-vendors/:id", middleware.HasPermission(models.PermissionVendorManage), vendorHandler.UpdateVendor)
	protected.Delete("/user-vendors/:id", middleware.HasPermission(models.PermissionVendorManage), vendorHandler.DeleteVendor)

	// Payout cards
	protected.Post("/payout-cards", cardHandler.LinkCard)
	protected.Get("/payout-cards", cardHandler.ListCards)
	protected.Delete("/payout-cards/:id", cardHandler.DeleteCard)

	// Notifications
	protected.Get("/notifications", notificationHandler.ListNotifications)
	protected.Post("/notifications/:id/read", notificationHandler.MarkNotificationRead)

	// Admin
	admin := api.Group("/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)
	admin.Get("/cache-stats", healthHandler.CacheStats)
	admin.Get("/groups/:id/status-log", groupHandler.GetStatusLog)
}
