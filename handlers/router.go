package handlers

import (
	"github.com/modifikasi/partsdesk/middleware"
	"github.com/modifikasi/partsdesk/models"

	"github.com/gin-gonic/gin"
)

// RouterOptions are the transport settings NewRouter needs
type RouterOptions struct {
	AllowedOrigins []string
	// MediaDir is served under /media; empty disables static serving
	MediaDir string
}

// NewRouter wires every endpoint onto a gin engine
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(h.Log), middleware.CORSMiddleware(opts.AllowedOrigins))

	if opts.MediaDir != "" {
		r.Static("/media", opts.MediaDir)
	}

	r.GET("/health-check", h.CheckConnection)

	// Public routes (no authentication required)
	public := r.Group("/auth")
	{
		public.POST("/signup", h.SignUp)
		public.POST("/signin", h.SignIn)
		public.POST("/password-reset/request", h.RequestResetCode)
		public.POST("/password-reset/verify", h.VerifyResetCode)
		public.POST("/password-reset/confirm", h.ResetPassword)
	}

	authRequired := middleware.AuthMiddleware(h.JWT, h.Store)

	// Session routes for any signed-in user
	session := r.Group("/")
	session.Use(authRequired)
	{
		session.POST("/auth/signout", h.SignOut)
		session.POST("/auth/refresh", h.Refresh)
		session.GET("/auth/me", h.Me)

		session.GET("/profile", h.GetProfile)
		session.PUT("/profile", h.UpdateProfile)
		session.POST("/profile/avatar", h.UploadAvatar)
	}

	// Inventory routes for shop staff
	staff := r.Group("/")
	staff.Use(authRequired, middleware.RequireRoles(models.RoleOwner, models.RoleAdmin))
	{
		staff.GET("/parts", h.ListParts)
		staff.GET("/parts/:id", h.GetPart)
		staff.POST("/parts", h.CreatePart)
		staff.PUT("/parts/:id", h.UpdatePart)
		staff.POST("/parts/:id/stock", h.AddStock)
		staff.POST("/parts/:id/sales", h.MarkSold)
		staff.GET("/parts/:id/sales", h.PartSales)
		staff.POST("/parts/:id/interactions", h.LogInteraction)
		staff.POST("/parts/archive", h.ArchiveParts)
		staff.POST("/parts/restore", h.RestoreParts)

		staff.GET("/sales", h.ListSales)

		staff.GET("/reports/popular", h.PopularParts)
		staff.GET("/reports/customized", h.CustomizedParts)
		staff.GET("/reports/summary", h.Summary)
	}

	// Admin-only routes
	admin := r.Group("/admin")
	admin.Use(authRequired, middleware.AdminRequired())
	{
		admin.POST("/parts/delete", h.DeleteParts)
		admin.DELETE("/parts/:id", h.DeletePart)
	}

	// Owner-only access management
	owner := r.Group("/owner")
	owner.Use(authRequired, middleware.OwnerRequired())
	{
		owner.GET("/users", h.ListUsers)
		owner.PUT("/users/:id/role", h.ApproveRole)
		owner.POST("/users/:id/deny", h.DenyAccount)
		owner.POST("/users/:id/toggle-status", h.ToggleStatus)
		owner.DELETE("/users/:id", h.DeleteUser)
	}

	return r
}
