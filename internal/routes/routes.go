package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/partner-portal/internal/config"
	"github.com/example/partner-portal/internal/handlers"
	"github.com/example/partner-portal/internal/middleware"
	"github.com/example/partner-portal/internal/models"
	"github.com/example/partner-portal/internal/otp"
	"github.com/example/partner-portal/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, ledger *otp.Ledger, notifier *services.Notifier, log *zap.Logger) {
	authService := services.NewAuthService(db, ledger, notifier, log, cfg.JWTSecret, cfg.TokenExpires)
	partnerService := services.NewPartnerService(db, notifier, log, cfg.AdminEmail, cfg.PasswordLength, cfg.ReferenceCodeLength)
	referralService := services.NewReferralService(db, notifier, log)

	authHandler := handlers.NewAuthHandler(authService)
	partnerHandler := handlers.NewPartnerHandler(db, partnerService)
	adminHandler := handlers.NewAdminHandler(db)
	storeHandler := handlers.NewStoreHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db)
	playbookHandler := handlers.NewPlaybookHandler(db)
	referralHandler := handlers.NewReferralHandler(db, referralService)

	staffOnly := middleware.RequireRole(cfg, models.RoleAdmin, models.RoleSuperAdmin)
	anyPrincipal := middleware.RequireRole(cfg, models.RoleAdmin, models.RoleSuperAdmin, models.RolePartner)
	superAdminOnly := middleware.RequireRole(cfg, models.RoleSuperAdmin)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	})

	// Auth routes
	auth := app.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgetPassword", authHandler.ForgetPassword)
	auth.Post("/validateOtp", authHandler.ValidateOTP)
	auth.Post("/resetPassword", authHandler.ResetPassword)

	// Partner lifecycle routes
	partner := app.Group("/partner")
	partner.Post("/register", partnerHandler.Register)
	partner.Get("/getAllPartners", staffOnly, partnerHandler.GetAllPartners)
	partner.Get("/detail/:id", anyPrincipal, partnerHandler.GetPartner)
	partner.Put("/update/:id", staffOnly, partnerHandler.UpdatePartner)
	partner.Delete("/remove/:id", staffOnly, partnerHandler.DeletePartner)
	partner.Post("/approvePartner", staffOnly, partnerHandler.ApprovePartner)
	partner.Post("/rejectPartner", staffOnly, partnerHandler.RejectPartner)

	// Admin account routes
	admin := app.Group("/admin", staffOnly)
	admin.Get("/list", adminHandler.ListAdmins)
	admin.Get("/detail/:id", adminHandler.GetAdmin)
	admin.Post("/create", superAdminOnly, adminHandler.CreateAdmin)
	admin.Put("/update/:id", adminHandler.UpdateAdmin)
	admin.Delete("/remove/:id", adminHandler.DeleteAdmin)

	// Store routes
	stores := app.Group("/partner-store")
	stores.Post("/", staffOnly, storeHandler.CreateStore)
	stores.Get("/", staffOnly, storeHandler.ListStores)
	stores.Get("/partner/:partnerId", anyPrincipal, storeHandler.GetStoresByPartner)
	stores.Get("/:id", anyPrincipal, storeHandler.GetStore)
	stores.Put("/:id", staffOnly, storeHandler.UpdateStore)
	stores.Delete("/:id", staffOnly, storeHandler.DeleteStore)

	api := app.Group("/api")

	// Payment routes
	payments := api.Group("/store-payment", staffOnly)
	payments.Post("/", paymentHandler.CreatePayment)
	payments.Get("/", paymentHandler.ListPayments)
	payments.Get("/:id", paymentHandler.GetPayment)
	payments.Put("/:id", paymentHandler.UpdatePayment)
	payments.Delete("/:id", paymentHandler.DeletePayment)

	// Playbook routes
	playbooks := api.Group("/playbook")
	playbooks.Post("/", staffOnly, playbookHandler.CreatePlaybook)
	playbooks.Get("/", anyPrincipal, playbookHandler.ListPlaybooks)
	playbooks.Get("/:id", anyPrincipal, playbookHandler.GetPlaybook)
	playbooks.Put("/:id", staffOnly, playbookHandler.UpdatePlaybook)
	playbooks.Delete("/:id", staffOnly, playbookHandler.DeletePlaybook)

	// Referral routes. The path keeps the spelling clients already depend on.
	referrals := api.Group("/refral")
	referrals.Post("/", referralHandler.CreateReferral)
	referrals.Get("/", staffOnly, referralHandler.ListReferrals)
	referrals.Get("/:id", staffOnly, referralHandler.GetReferral)
	referrals.Put("/:id", staffOnly, referralHandler.UpdateReferral)
	referrals.Delete("/:id", staffOnly, referralHandler.DeleteReferral)
}
