package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/tonthep-backend/controllers"
	"github.com/vnkhanh/tonthep-backend/middleware"
	"github.com/vnkhanh/tonthep-backend/services"
)

// Deps gom các service mà router cần.
type Deps struct {
	DB           *gorm.DB
	Auth         *services.AuthService
	Categories   *services.CategoryService
	Banners      *services.BannerService
	Products     *services.ProductService
	Posts        *services.PostService
	Contact      *services.ContactService
	Media        *services.MediaService
	LoginLimiter middleware.Limiter
	SecureCookie bool

	// proxy được tin header X-Forwarded-For, nil là lấy IP kết nối trực tiếp
	TrustedProxies []string
}

func SetupRouter(r *gin.Engine, deps Deps) *gin.Engine {
	// ClientIP chỉ đọc X-Forwarded-For khi request đi qua proxy trong danh sách
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		log.Printf("[router] danh sách proxy không hợp lệ: %v, bỏ qua X-Forwarded-For", err)
		_ = r.SetTrustedProxies(nil)
	}

	health := controllers.NewHealthController(deps.DB)
	authCtl := controllers.NewAuthController(deps.Auth, deps.SecureCookie)
	categoryCtl := controllers.NewCategoryController(deps.Categories)
	bannerCtl := controllers.NewBannerController(deps.Banners)
	productCtl := controllers.NewProductController(deps.Products)
	postCtl := controllers.NewPostController(deps.Posts)
	contactCtl := controllers.NewContactController(deps.Contact)
	uploadCtl := controllers.NewUploadController(deps.Media)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", health.HealthCheck)

	api := r.Group("/api")
	admin := middleware.RequireAdmin(deps.Auth)

	auth := api.Group("/auth")
	{
		if deps.LoginLimiter != nil {
			auth.POST("/login", middleware.RateLimit(deps.LoginLimiter, "login"), authCtl.Login)
		} else {
			auth.POST("/login", authCtl.Login)
		}
		auth.POST("/refresh", authCtl.Refresh)
		auth.POST("/logout", authCtl.Logout)
		auth.GET("/me", admin, authCtl.Me)
		auth.POST("/change-password", admin, authCtl.ChangePassword)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", categoryCtl.ListPublic)
		categories.GET("/navlinks", categoryCtl.NavLinks)
		categories.GET("/slug/:slug", categoryCtl.GetBySlug)

		categories.GET("/admin/all", admin, categoryCtl.ListAdmin)
		categories.POST("", admin, categoryCtl.Create)
		categories.PATCH("/order", admin, categoryCtl.Reorder)
		categories.PUT("/:id", admin, categoryCtl.Update)
		categories.DELETE("/:id", admin, categoryCtl.SoftDelete)
		categories.DELETE("/:id/permanent", admin, categoryCtl.HardDelete)
	}

	banners := api.Group("/banners")
	{
		banners.GET("", bannerCtl.ListPublic)
		banners.GET("/admin/all", admin, bannerCtl.ListAdmin)
		banners.GET("/:id", admin, bannerCtl.Get)
		banners.POST("", admin, bannerCtl.Create)
		banners.PUT("/:id", admin, bannerCtl.Update)
		banners.DELETE("/:id", admin, bannerCtl.Delete)
	}

	products := api.Group("/products")
	{
		products.GET("", productCtl.ListPublic)
		products.GET("/slug/:slug", productCtl.GetBySlug)

		products.GET("/admin/all", admin, productCtl.ListAdmin)
		products.GET("/:id", admin, productCtl.Get)
		products.POST("", admin, productCtl.Create)
		products.PUT("/:id", admin, productCtl.Update)
		products.PATCH("/:id/images/:index/remove", admin, productCtl.RemoveImage)
		products.DELETE("/:id", admin, productCtl.SoftDelete)
		products.DELETE("/:id/permanent", admin, productCtl.HardDelete)
	}

	posts := api.Group("/posts")
	{
		posts.GET("", postCtl.ListPublic)
		posts.GET("/slug/:slug", postCtl.GetBySlug)

		posts.GET("/admin/all", admin, postCtl.ListAdmin)
		posts.GET("/:id", admin, postCtl.Get)
		posts.POST("", admin, postCtl.Create)
		posts.PUT("/:id", admin, postCtl.Update)
		posts.DELETE("/:id", admin, postCtl.SoftDelete)
		posts.DELETE("/:id/permanent", admin, postCtl.HardDelete)
	}

	api.GET("/contact-info", contactCtl.Get)
	api.PUT("/contact-info", admin, contactCtl.Upsert)

	uploads := api.Group("/admin/uploads", admin)
	{
		uploads.POST("", uploadCtl.Upload)
		uploads.DELETE("", uploadCtl.Delete)
	}

	return r
}
