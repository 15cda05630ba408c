package buildCFG

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"dubexpo/internal/mailer"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type ServerConfig struct {
	Port string
}

type StorageConfig struct {
	Driver         string
	SQLitePath     string
	SQLiteBaseline string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

func (r RabbitConfig) Enabled() bool {
	return r.Url != ""
}

type AdminConfig struct {
	Password   string
	JWTSecret  string
	SessionTTL time.Duration
}

type WizardConfig struct {
	RequirePack bool
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, defaulting to 8080")
	}
	return ServerConfig{Port: port}
}

func BuildStorageConfig(cfg *config.Config, log *zerolog.Logger) (StorageConfig, error) {
	sc := StorageConfig{
		Driver:         cfg.GetString("storage.driver"),
		SQLitePath:     cfg.GetString("storage.sqlite.path"),
		SQLiteBaseline: cfg.GetString("storage.sqlite.baseline"),
	}
	if sc.Driver == "" {
		sc.Driver = DriverSQLite
		log.Warn().Msg("storage.driver not set, defaulting to sqlite")
	}
	if sc.Driver != DriverSQLite && sc.Driver != DriverPostgres {
		return sc, fmt.Errorf("unknown storage driver %q", sc.Driver)
	}
	if sc.Driver == DriverSQLite && sc.SQLitePath == "" {
		sc.SQLitePath = "data/registrations.sqlite"
	}
	return sc, nil
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("db.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("db.master_dsn is required for the postgres backend")
	}

	var slaveDSNs []string
	if raw := cfg.GetString("db.slave_dsns"); raw != "" {
		for _, dsn := range strings.Split(raw, ",") {
			if dsn = strings.TrimSpace(dsn); dsn != "" {
				slaveDSNs = append(slaveDSNs, dsn)
			}
		}
	}

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("db.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("db.max_idle_conns"),
		ConnMaxLifetime: time.Duration(cfg.GetInt("db.conn_max_lifetime_seconds")) * time.Second,
	}

	log.Info().Int("slaves", len(slaveDSNs)).Msg("database configuration loaded")
	return masterDSN, slaveDSNs, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) RabbitConfig {
	rc := RabbitConfig{
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if !rc.Enabled() {
		log.Warn().Msg("rabbit.url not set, notifications disabled")
		return rc
	}
	if rc.Exchange == "" {
		rc.Exchange = "registrations"
	}
	if rc.Queue == "" {
		rc.Queue = "registration-notifications"
	}
	return rc
}

func BuildMailConfig(cfg *config.Config, log *zerolog.Logger) mailer.Config {
	mc := mailer.Config{
		Host:     cfg.GetString("smtp.host"),
		Port:     cfg.GetInt("smtp.port"),
		From:     cfg.GetString("smtp.from"),
		Password: cfg.GetString("smtp.password"),
	}
	if !mc.Enabled() {
		log.Warn().Msg("smtp not configured, notification emails will be logged only")
	} else if mc.Port == 0 {
		mc.Port = 587
	}
	return mc
}

func BuildAdminConfig(cfg *config.Config, log *zerolog.Logger) (AdminConfig, error) {
	ac := AdminConfig{
		Password:  cfg.GetString("admin.password"),
		JWTSecret: cfg.GetString("admin.jwt_secret"),
	}
	if ac.Password == "" {
		return ac, fmt.Errorf("admin.password is required")
	}
	if ac.JWTSecret == "" {
		return ac, fmt.Errorf("admin.jwt_secret is required")
	}

	ttlMinutes := cfg.GetInt("admin.session_ttl_minutes")
	if ttlMinutes <= 0 {
		ttlMinutes = 60
		log.Warn().Msg("admin.session_ttl_minutes not set, defaulting to 60")
	}
	ac.SessionTTL = time.Duration(ttlMinutes) * time.Minute

	return ac, nil
}

func BuildWizardConfig(cfg *config.Config) WizardConfig {
	// Pack selection is mandatory unless explicitly switched off.
	return WizardConfig{RequirePack: cfg.GetString("wizard.require_pack") != "false"}
}
