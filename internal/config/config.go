package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string // Postgres DSN; empty means the SQLite file is used
	SQLitePath          string
	RedisURL            string
	UploadDir           string
	SessionSecret       string
	AdminEmail          string
	AdminPasswordHash   string // bcrypt hash of the single shared admin credential
	WhatsAppPhone       string // digits only, e.g. 525536343619; empty disables contact links
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	sqlitePath := viper.GetString("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = "autovia.db"
	}
	uploadDir := viper.GetString("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	return &Config{
		Env:                 env,
		Port:                port,
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		SQLitePath:          sqlitePath,
		RedisURL:            viper.GetString("REDIS_URL"),
		UploadDir:           uploadDir,
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		AdminEmail:          viper.GetString("ADMIN_EMAIL"),
		AdminPasswordHash:   viper.GetString("ADMIN_PASSWORD_HASH"),
		WhatsAppPhone:       viper.GetString("WHATSAPP_PHONE"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
	}, nil
}
