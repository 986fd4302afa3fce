package config

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppConfig struct {
	APP struct {
		Name     string `mapstructure:"NAME"`
		Port     string `mapstructure:"PORT"`
		State    string `mapstructure:"STATE"`
		LogLevel string `mapstructure:"LOG_LEVEL"`
	}

	DATABASE struct {
		Postgres struct {
			DSN string `mapstructure:"DSN"`
		}
		Redis struct {
			Addr     string `mapstructure:"ADDR"`
			Password string `mapstructure:"PASSWORD"`
			DB       int    `mapstructure:"DB"`
			// LimiterDB trennt die Rate-Limiter-Schlüssel von den Einladungsdaten.
			LimiterDB int `mapstructure:"LIMITER_DB"`
		}
	}

	INVITATION struct {
		BaseURL             string        `mapstructure:"BASE_URL"`
		TTL                 time.Duration `mapstructure:"TTL"`
		TokenLength         int           `mapstructure:"TOKEN_LENGTH"`
		VerificationLength  int           `mapstructure:"VERIFICATION_LENGTH"`
		VerificationCodeTTL time.Duration `mapstructure:"VERIFICATION_CODE_TTL"`
		OrganizationNameTTL time.Duration `mapstructure:"ORGANIZATION_NAME_TTL"`
	}

	DISPATCHER struct {
		Workers           int           `mapstructure:"WORKERS"`
		MaxAttempts       int           `mapstructure:"MAX_ATTEMPTS"`
		InitialBackoff    time.Duration `mapstructure:"INITIAL_BACKOFF"`
		MaxBackoff        time.Duration `mapstructure:"MAX_BACKOFF"`
		BlockTimeout      time.Duration `mapstructure:"BLOCK_TIMEOUT"`
		VisibilityTimeout time.Duration `mapstructure:"VISIBILITY_TIMEOUT"`
		ReclaimSpec       string        `mapstructure:"RECLAIM_SPEC"`
		MetricsAddr       string        `mapstructure:"METRICS_ADDR"`
	}

	MAILTRAP struct {
		Sandbox struct {
			SandboxURL    string `mapstructure:"SANDBOX_URL"`
			SandboxAPI    string `mapstructure:"SANDBOX_API"`
			SandboxDomain string `mapstructure:"SANDBOX_DOMAIN"`
		}
		API struct {
			MailtrapTokenAPI string `mapstructure:"MAILTRAP_TOKEN_API"`
			MailtrapURL      string `mapstructure:"MAILTRAP_URL"`
			MailtrapDomain   string `mapstructure:"MAILTRAP_DOMAIN"`
		}
		SenderName string        `mapstructure:"SENDER_NAME"`
		Timeout    time.Duration `mapstructure:"TIMEOUT"`
	}
}

// LoadConfig liest application.yaml aus dem Arbeitsverzeichnis.
func LoadConfig() *AppConfig {
	return LoadConfigFrom(".")
}

// LoadConfigFrom liest application.yaml aus den angegebenen Pfaden. Umgebungsvariablen
// (z. B. DATABASE_REDIS_ADDR) überschreiben Werte aus der Datei.
func LoadConfigFrom(paths ...string) *AppConfig {
	v := viper.New()
	v.SetConfigName("application")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Error().Err(err).Msg("Fehler beim Lesen der Konfigurationsdatei")
		return nil
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		log.Error().Err(err).Msg("Fehler beim Entpacken der Konfiguration")
		return nil
	}

	if config.INVITATION.BaseURL == "" {
		log.Error().Msg("Basis-URL für Einladungen ist nicht konfiguriert")
		return nil
	}
	config.INVITATION.BaseURL = strings.TrimRight(config.INVITATION.BaseURL, "/")

	log.Info().Msg("Konfiguration geladen...")
	return &config
}

// RequirePostgres prüft die DSN. Nur die API braucht Postgres, der Worker nicht.
func (c *AppConfig) RequirePostgres() error {
	if c.DATABASE.Postgres.DSN == "" {
		return errors.New("datenbank-DSN ist nicht konfiguriert")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP.NAME", "organisation-meister")
	v.SetDefault("APP.PORT", "8080")
	v.SetDefault("APP.STATE", "dev")
	v.SetDefault("APP.LOG_LEVEL", "debug")

	// leere Defaults, damit AutomaticEnv die Schlüssel beim Unmarshal kennt
	v.SetDefault("DATABASE.POSTGRES.DSN", "")
	v.SetDefault("DATABASE.REDIS.PASSWORD", "")
	v.SetDefault("INVITATION.BASE_URL", "")

	v.SetDefault("DATABASE.REDIS.ADDR", "localhost:6379")
	v.SetDefault("DATABASE.REDIS.DB", 0)
	v.SetDefault("DATABASE.REDIS.LIMITER_DB", 1)

	v.SetDefault("INVITATION.TTL", 7*24*time.Hour)
	v.SetDefault("INVITATION.TOKEN_LENGTH", 32)
	v.SetDefault("INVITATION.VERIFICATION_LENGTH", 8)
	v.SetDefault("INVITATION.VERIFICATION_CODE_TTL", 15*time.Minute)
	v.SetDefault("INVITATION.ORGANIZATION_NAME_TTL", 10*time.Minute)

	v.SetDefault("DISPATCHER.WORKERS", 4)
	v.SetDefault("DISPATCHER.MAX_ATTEMPTS", 5)
	v.SetDefault("DISPATCHER.INITIAL_BACKOFF", 500*time.Millisecond)
	v.SetDefault("DISPATCHER.MAX_BACKOFF", 30*time.Second)
	v.SetDefault("DISPATCHER.BLOCK_TIMEOUT", 5*time.Second)
	v.SetDefault("DISPATCHER.VISIBILITY_TIMEOUT", 5*time.Minute)
	v.SetDefault("DISPATCHER.RECLAIM_SPEC", "*/1 * * * *")
	v.SetDefault("DISPATCHER.METRICS_ADDR", ":9102")

	v.SetDefault("MAILTRAP.SENDER_NAME", "Organisation Meister")
	v.SetDefault("MAILTRAP.TIMEOUT", 10*time.Second)
}
