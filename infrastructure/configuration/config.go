package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"subtitle-widget/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	Database      Database      `json:"database"`
	App           App           `json:"app"`
	RedisClient   RedisClient   `json:"redisClient"`
	Logger        Logger        `json:"logger"`
	YouTube       YouTube       `json:"youtube"`
	Widget        Widget        `json:"widget"`
	Metrics       Metrics       `json:"metrics"`
	SyncRuleCache SyncRuleCache `json:"syncRuleCache"`
}

type App struct {
	Port        int      `json:"port"`
	SecretKey   string   `json:"secretKey"`
	TLSEnabled  bool     `json:"tlsEnabled"`
	TLSCertFile string   `json:"tlsCertFile"`
	TLSKeyFile  string   `json:"tlsKeyFile"`
	Origins     []string `json:"origins"`
}

type Database struct {
	// Vendor selects the primary store: "psql" (default) or "mssql".
	Vendor string `json:"vendor"`
	Psql   Db     `json:"psql"`
	MySql  Db     `json:"mysql"`
	Mssql  Db     `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
	DB       int    `json:"db"`
}

type Logger struct {
	Format string `json:"format"`
}

type YouTube struct {
	ClientID     string   `json:"clientId"`
	ClientSecret string   `json:"clientSecret"`
	RedirectURI  string   `json:"redirectURI"`
	Scopes       []string `json:"scopes"`
	// AlwaysPushUsername names the linked account allowed to push to any video matching the sync rule.
	AlwaysPushUsername string `json:"alwaysPushUsername"`
}

type Widget struct {
	UserMessageTTLSeconds int      `json:"userMessageTTLSeconds"`
	LoggableMethods       []string `json:"loggableMethods"`
	BrowserIDCookie       string   `json:"browserIdCookie"`
}

type Metrics struct {
	Enabled bool `json:"enabled"`
}

type SyncRuleCache struct {
	TTLSeconds int `json:"ttlSeconds"`
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initYouTube(&C)
	initWidget(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if v := os.Getenv("DB_VENDOR"); v != "" {
		C.Database.Vendor = v
	}
	if C.Database.Vendor == "" {
		C.Database.Vendor = "psql"
	}

	fillDb(&C.Database.Psql, "DB")
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}

	fillDb(&C.Database.Mssql, "MSSQL")
	if C.Database.Mssql.Host == "" {
		C.Database.Mssql.Host = "localhost"
	}
	if C.Database.Mssql.Port == "" {
		C.Database.Mssql.Port = "1433"
	}
	if C.Database.Mssql.User == "" {
		C.Database.Mssql.User = "sa"
	}

	fillDb(&C.Database.MySql, "MYSQL")
	if C.Database.MySql.Port == "" {
		C.Database.MySql.Port = "3306"
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"vendor": C.Database.Vendor,
		"host":   C.Database.Psql.Host,
	}).Info("Database configuration")
}

// fillDb applies PREFIX_NAME, PREFIX_HOST, ... for any field the config file left empty.
func fillDb(db *Db, prefix string) {
	fields := []struct {
		target *string
		key    string
	}{
		{&db.Name, prefix + "_NAME"},
		{&db.Host, prefix + "_HOST"},
		{&db.Port, prefix + "_PORT"},
		{&db.User, prefix + "_USER"},
		{&db.Password, prefix + "_PASSWORD"},
	}
	for _, f := range fields {
		if *f.target == "" {
			*f.target = os.Getenv(f.key)
		}
	}
}

func initApp(C *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		C.App.TLSEnabled = parseBool(v, C.App.TLSEnabled)
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		C.Metrics.Enabled = parseBool(v, C.Metrics.Enabled)
	}
	if C.SyncRuleCache.TTLSeconds == 0 {
		C.SyncRuleCache.TTLSeconds = 60
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; admin API authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initYouTube(C *Config) {
	C.YouTube.ClientID = getConfigValue(C.YouTube.ClientID, "YOUTUBE_CLIENT_ID", "")
	C.YouTube.ClientSecret = getConfigValue(C.YouTube.ClientSecret, "YOUTUBE_CLIENT_SECRET", "")
	C.YouTube.AlwaysPushUsername = getConfigValue(C.YouTube.AlwaysPushUsername, "YOUTUBE_ALWAYS_PUSH_USERNAME", "")

	scheme := "http"
	if C.App.TLSEnabled {
		scheme = "https"
	}
	defaultRedirect := fmt.Sprintf("%s://localhost:%d/auth/youtube/callback", scheme, C.App.Port)
	C.YouTube.RedirectURI = getConfigValue(C.YouTube.RedirectURI, "YOUTUBE_REDIRECT_URL", defaultRedirect)
	if C.App.TLSEnabled && !hasHTTPS(C.YouTube.RedirectURI) {
		C.YouTube.RedirectURI = toHTTPSCallback(C.YouTube.RedirectURI)
	}
	if C.YouTube.AlwaysPushUsername == "" {
		logger.GetLogger().Warn("youtube.alwaysPushUsername not set; sync rule mirroring is disabled")
	}
}

func initWidget(C *Config) {
	if C.Widget.UserMessageTTLSeconds == 0 {
		C.Widget.UserMessageTTLSeconds = 6
	}
	if len(C.Widget.LoggableMethods) == 0 {
		C.Widget.LoggableMethods = []string{"start_editing", "fork", "set_title", "save_subtitles", "finished_subtitles"}
	}
	if C.Widget.BrowserIDCookie == "" {
		C.Widget.BrowserIDCookie = "bid"
	}
}

// getConfigValue gets value from config first, then environment variable, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

func parseBool(v string, fallback bool) bool {
	switch v {
	case "1", "true", "TRUE", "True":
		return true
	case "0", "false", "FALSE", "False":
		return false
	}
	return fallback
}

func hasHTTPS(u string) bool { return strings.HasPrefix(u, "https://") }

func toHTTPSCallback(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}
