// Package config loads process configuration from the environment so main
// stays lean. The reference deployment hard-coded chat identifiers; here
// everything is externalized.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"gatekeeper/internal/gate/models"
)

// Config captures everything the process needs at startup. A missing
// BOT_TOKEN is the only fatal configuration failure.
type Config struct {
	Addr     string `env:"GATEKEEPER_ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	BotToken string `env:"BOT_TOKEN,required"`

	EntryChatID     int64 `env:"ENTRY_CHAT_ID,required"`
	CompanionChatID int64 `env:"COMPANION_CHAT_ID,required"`
	MainChatID      int64 `env:"MAIN_CHAT_ID,required"`
	OperatorChatID  int64 `env:"OPERATOR_CHAT_ID,required"`

	AuditLogPath string `env:"AUDIT_LOG_PATH" envDefault:"verifications.log"`

	// NoticeTTL is how long transient notices live before deletion.
	NoticeTTL time.Duration `env:"NOTICE_TTL" envDefault:"60s"`
	// VerifyCooldown is the per-user wait between /verify attempts.
	VerifyCooldown time.Duration `env:"VERIFY_COOLDOWN" envDefault:"60s"`
	// ConfirmAttempts bounds the confirm-and-evict polling loop.
	ConfirmAttempts int `env:"CONFIRM_ATTEMPTS" envDefault:"3"`
	// ConfirmInterval is the fixed wait between confirmation polls.
	ConfirmInterval time.Duration `env:"CONFIRM_INTERVAL" envDefault:"5s"`
}

// FromEnv parses configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Spaces resolves the configured chat identifiers into the closed space set
// handlers compare against.
func (c Config) Spaces() models.Spaces {
	return models.Spaces{
		Entry:     models.Space{ID: c.EntryChatID, Role: models.RoleEntry},
		Companion: models.Space{ID: c.CompanionChatID, Role: models.RoleCompanion},
		Main:      models.Space{ID: c.MainChatID, Role: models.RoleMain},
		Operator:  models.Space{ID: c.OperatorChatID, Role: models.RoleOperator},
	}
}
