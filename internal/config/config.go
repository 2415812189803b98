package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env            string        `toml:"env"`
	AppSecret      string        `toml:"jwt_secret"`
	DatabaseURL    string        `toml:"database_url"`
	JWTExpiry      time.Duration `toml:"-"`
	Port           string        `toml:"port"`
	LogLevel       string        `toml:"log_level"`
	AllowedOrigins []string      `toml:"cors_origins"`
	AutoMigrate    bool          `toml:"-"`
	DB             DBConfig      `toml:"database"`
	RateLimit      RateConfig    `toml:"rate_limit"`
}

// DBConfig 连接池配置
type DBConfig struct {
	MaxOpenConns int `toml:"max_open_conns"`
	MaxIdleConns int `toml:"max_idle_conns"`
}

// RateConfig 认证接口限流配置
type RateConfig struct {
	PerSecond float64 `toml:"per_second"`
	Burst     int     `toml:"burst"`
}

// fileConfig TOML 配置文件结构，环境变量优先于文件
type fileConfig struct {
	Config
	JWTExpiryHours int `toml:"jwt_expiry_hours"`
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Warnings 启动时需要提示的配置问题
func (c *Config) Warnings() []string {
	var warnings []string
	if c.IsProduction() && c.AppSecret == defaultSecret {
		warnings = append(warnings, "生产环境正在使用默认密钥！请立即设置 JWT_SECRET 环境变量")
	}
	return warnings
}

// Load 加载配置
func Load() *Config {
	cfg, _ := LoadWithFile("")
	return cfg
}

// LoadWithFile 先读取 TOML 文件作为默认值，再用环境变量覆盖。path 为空时只读环境变量。
func LoadWithFile(path string) (*Config, error) {
	base := fileConfig{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := toml.Unmarshal(data, &base); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	expiryDefault := "168"
	if base.JWTExpiryHours > 0 {
		expiryDefault = strconv.Itoa(base.JWTExpiryHours)
	}
	expiryHours, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", expiryDefault))
	if err != nil || expiryHours <= 0 {
		expiryHours = 168
	}

	dbURL := getEnv("DATABASE_URL", base.DatabaseURL)
	if dbURL == "" {
		dbUser := getEnv("DB_USER", "postgres")
		dbPass := getEnv("DB_PASSWORD", "postgres")
		dbHost := getEnv("DB_HOST", "localhost")
		dbPort := getEnv("DB_PORT", "5432")
		dbName := getEnv("DB_NAME", "moovie")
		dbSSL := getEnv("DB_SSLMODE", "disable")

		dbURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)
	}

	env := getEnv("APP_ENV", orDefault(base.Env, "development"))
	appSecret := getEnv("JWT_SECRET", getEnv("APP_SECRET", orDefault(base.AppSecret, defaultSecret)))

	origins := base.AllowedOrigins
	if v := os.Getenv("CORS_ORIGINS"); v != "" || len(origins) == 0 {
		origins = splitList(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	return &Config{
		Env:            env,
		AppSecret:      appSecret,
		DatabaseURL:    dbURL,
		JWTExpiry:      time.Duration(expiryHours) * time.Hour,
		Port:           getEnv("PORT", orDefault(base.Port, "5001")),
		LogLevel:       getEnv("LOG_LEVEL", orDefault(base.LogLevel, "info")),
		AllowedOrigins: origins,
		AutoMigrate:    getBool("DB_AUTO_MIGRATE", true),
		DB: DBConfig{
			MaxOpenConns: getInt("DB_MAX_OPEN_CONNS", orInt(base.DB.MaxOpenConns, 25)),
			MaxIdleConns: getInt("DB_MAX_IDLE_CONNS", orInt(base.DB.MaxIdleConns, 5)),
		},
		RateLimit: RateConfig{
			PerSecond: getFloat("AUTH_RATE_LIMIT", orFloat(base.RateLimit.PerSecond, 5)),
			Burst:     getInt("AUTH_RATE_BURST", orInt(base.RateLimit.Burst, 10)),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func orDefault(v, d string) string {
	if v != "" {
		return v
	}
	return d
}

func orInt(v, d int) int {
	if v > 0 {
		return v
	}
	return d
}

func orFloat(v, d float64) float64 {
	if v > 0 {
		return v
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}
