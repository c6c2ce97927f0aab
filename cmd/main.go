package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/vnkhanh/tonthep-backend/config"
	"github.com/vnkhanh/tonthep-backend/middleware"
	"github.com/vnkhanh/tonthep-backend/routes"
	"github.com/vnkhanh/tonthep-backend/services"
	"github.com/vnkhanh/tonthep-backend/utils"
)

const (
	emailFlag    = "email"
	passwordFlag = "password"
	nameFlag     = "name"
)

var adminFlags = map[string]cobraflags.Flag{
	emailFlag: &cobraflags.StringFlag{
		Name:  emailFlag,
		Value: "",
		Usage: "Email đăng nhập của admin",
	},
	passwordFlag: &cobraflags.StringFlag{
		Name:  passwordFlag,
		Value: "",
		Usage: "Mật khẩu (tối thiểu 6 ký tự)",
	},
	nameFlag: &cobraflags.StringFlag{
		Name:  nameFlag,
		Value: "Quản trị viên",
		Usage: "Tên hiển thị",
	},
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Chạy HTTP API server",
		RunE:  serve,
	}

	createAdminCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Tạo tài khoản admin hoặc đặt lại mật khẩu nếu email đã tồn tại",
		RunE:  createAdmin,
	}
	cobraflags.RegisterMap(createAdminCmd, adminFlags)

	rootCmd := &cobra.Command{
		Use:          "tonthep",
		Short:        "Backend API cho website tôn thép",
		RunE:         serve,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCmd, createAdminCmd)
	return rootCmd
}

func serve(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := utils.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	var media services.MediaStore
	if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
		media = utils.NewSupabaseMedia(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
	} else {
		log.Println("[media] chưa cấu hình SUPABASE_URL/SUPABASE_KEY, upload ảnh bị tắt")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var limiter middleware.Limiter
	if cfg.RedisAddr != "" {
		client, err := middleware.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Printf("[redis] %v, dùng bộ đếm trong bộ nhớ", err)
		} else {
			defer client.Close()
			limiter = middleware.NewRedisLimiter(client, "tonthep:ratelimit:", cfg.LoginMaxAttempts, cfg.LoginWindow)
		}
	}
	if limiter == nil {
		memory := middleware.NewMemoryLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow)
		utils.StartCleanupJob(ctx, "login limiter", cfg.LoginWindow, func() {
			if n := memory.Prune(); n > 0 {
				log.Printf("[ratelimit] đã xóa %d bộ đếm hết hạn", n)
			}
		})
		limiter = memory
	}

	categories := services.NewCategoryService(db)
	deps := routes.Deps{
		DB:           db,
		Auth:         services.NewAuthService(db, tokens),
		Categories:   categories,
		Banners:      services.NewBannerService(db, media),
		Products:     services.NewProductService(db, media, categories),
		Posts:        services.NewPostService(db, media),
		Contact:      services.NewContactService(db),
		Media:        services.NewMediaService(media),
		LoginLimiter: limiter,
		SecureCookie: cfg.IsProduction(),

		TrustedProxies: cfg.TrustedProxies,
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("[panic] %v\n%s", recovered, debug.Stack())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Lỗi máy chủ, vui lòng thử lại sau"})
	}))

	//Bật CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	r = routes.SetupRouter(r, deps)

	log.Println("Server running at Port:" + cfg.Port)
	return r.Run(":" + cfg.Port)
}

func createAdmin(_ *cobra.Command, _ []string) error {
	email := adminFlags[emailFlag].GetString()
	password := adminFlags[passwordFlag].GetString()
	if email == "" || password == "" {
		return fmt.Errorf("cần truyền --%s và --%s", emailFlag, passwordFlag)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}

	tokens := utils.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	user, err := services.NewAuthService(db, tokens).EnsureAdmin(context.Background(), email, password, adminFlags[nameFlag].GetString())
	if err != nil {
		return err
	}
	log.Printf("Đã lưu tài khoản admin %s (%s)", user.Email, user.ID)
	return nil
}
