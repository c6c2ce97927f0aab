package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/tonthep-backend/models"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	// secret mặc định chỉ dùng khi dev, production sẽ từ chối
	defaultAccessSecret  = "dev-access-secret"
	defaultRefreshSecret = "dev-refresh-secret"
)

var ErrInsecureSecrets = errors.New("JWT_ACCESS_SECRET và JWT_REFRESH_SECRET bắt buộc khi chạy production")

type Config struct {
	Port   string
	AppEnv string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTAccessTTL     time.Duration
	JWTRefreshTTL    time.Duration

	CORSOrigins []string
	// IP/CIDR của reverse proxy được tin X-Forwarded-For, rỗng là không tin proxy nào
	TrustedProxies []string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string

	RedisAddr     string
	RedisPassword string

	LoginMaxAttempts int
	LoginWindow      time.Duration
}

// IsProduction quyết định cờ Secure của cookie và mức log của gorm.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Load đọc .env (nếu có) rồi lấy cấu hình từ biến môi trường.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Không tìm thấy file .env")
	}
	return FromEnv()
}

// FromEnv chỉ đọc biến môi trường, không đụng tới file .env.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "tonthep"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTAccessSecret:  getEnv("JWT_ACCESS_SECRET", defaultAccessSecret),
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET", defaultRefreshSecret),

		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		SupabaseKey:    os.Getenv("SUPABASE_KEY"),
		SupabaseBucket: getEnv("SUPABASE_BUCKET", "media"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	var err error
	if cfg.JWTAccessTTL, err = getDuration("JWT_ACCESS_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.JWTRefreshTTL, err = getDuration("JWT_REFRESH_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.LoginWindow, err = getDuration("LOGIN_WINDOW", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.LoginMaxAttempts, err = getInt("LOGIN_MAX_ATTEMPTS", 5); err != nil {
		return nil, err
	}
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	if cfg.TrustedProxies, err = getProxies("TRUSTED_PROXIES"); err != nil {
		return nil, err
	}

	if cfg.IsProduction() {
		if cfg.JWTAccessSecret == defaultAccessSecret || cfg.JWTRefreshSecret == defaultRefreshSecret ||
			cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
			return nil, ErrInsecureSecrets
		}
	}
	return cfg, nil
}

// DSN cho PostgreSQL
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=Asia/Ho_Chi_Minh",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// InitDB mở kết nối PostgreSQL, cấu hình pool và migrate schema.
func InitDB(cfg *Config) (*gorm.DB, error) {
	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("không thể kết nối database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("không thể lấy sql.DB từ gorm: %w", err)
	}

	// Connection Pooling config
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	log.Println("postgreSQL connected & migrated successfully!")
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Banner{},
		&models.Post{},
		&models.ContactInfo{},
		&models.AdminUser{},
	)
	if err != nil {
		return fmt.Errorf("autoMigrate lỗi: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s không hợp lệ: %q", key, v)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s không hợp lệ: %q", key, v)
	}
	return n, nil
}

func getProxies(key string) ([]string, error) {
	proxies := splitList(os.Getenv(key))
	for _, p := range proxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return nil, fmt.Errorf("%s không hợp lệ: %q", key, p)
		}
	}
	return proxies, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
