// Package config defines the configuration contract and handles loading and
// validating environment configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Canonical environment variable keys.
	KeyTelegramToken = "TELEGRAM_TOKEN"
	KeyWebAppURL     = "WEB_APP_URL"
	KeyHomepageURL   = "HOMEPAGE_URL"
	KeyOperatorChat  = "OPERATOR_CHAT_ID"
	KeySupportHandle = "SUPPORT_HANDLE"
	KeyAppEnv        = "APP_ENV"
	KeyLogLevel      = "LOG_LEVEL"
	KeyHTTPPort      = "HTTP_PORT"
	KeyFollowUpDelay = "FOLLOWUP_DELAY_MS"

	// Allowed environment values.
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// Defaults for optional settings.
	DefaultAppEnv          = EnvProduction
	DefaultLogLevel        = "info"
	DefaultHTTPPort        = 8000
	DefaultSupportHandle   = "@financial_grammarly"
	DefaultFollowUpDelayMS = 3000
)

// VarSpec describes a single configuration key.
type VarSpec struct {
	Key         string // environment variable name
	Example     string // human-friendly sample value
	Required    bool   // whether the relay must refuse to start without this value
	Default     string // default when unset (empty when required)
	Description string // what the variable controls
}

// Contract enumerates the authoritative configuration keys for the relay.
// .env loading is only permitted when APP_ENV=development; production must rely
// on environment variables supplied by the runtime.
var Contract = []VarSpec{
	{
		Key:         KeyTelegramToken,
		Example:     "123:ABC",
		Required:    true,
		Description: "Telegram Bot Token issued by BotFather.",
	},
	{
		Key:         KeyWebAppURL,
		Example:     "https://shop.example.com",
		Required:    true,
		Description: "Base URL of the embedded web-app; used for keyboard buttons and CORS.",
	},
	{
		Key:         KeyHomepageURL,
		Example:     "https://example.com",
		Required:    true,
		Description: "Public homepage URL embedded into the follow-up message and landing page.",
	},
	{
		Key:         KeyOperatorChat,
		Example:     "123456789",
		Required:    true,
		Description: "Telegram chat_id that receives forwarded lead submissions.",
	},
	{
		Key:         KeySupportHandle,
		Example:     DefaultSupportHandle,
		Default:     DefaultSupportHandle,
		Description: "Support channel handle mentioned in the follow-up message.",
	},
	{
		Key:         KeyAppEnv,
		Example:     EnvDevelopment + " / " + EnvProduction,
		Default:     DefaultAppEnv,
		Description: "Runtime environment; controls log format and dotenv usage.",
	},
	{
		Key:         KeyLogLevel,
		Example:     DefaultLogLevel,
		Default:     DefaultLogLevel,
		Description: "Overrides default log level.",
	},
	{
		Key:         KeyHTTPPort,
		Example:     strconv.Itoa(DefaultHTTPPort),
		Default:     strconv.Itoa(DefaultHTTPPort),
		Description: "Port for the web-app HTTP endpoints.",
	},
	{
		Key:         KeyFollowUpDelay,
		Example:     strconv.Itoa(DefaultFollowUpDelayMS),
		Default:     strconv.Itoa(DefaultFollowUpDelayMS),
		Description: "Delay in milliseconds before the follow-up message is sent.",
	},
}

// Config mirrors resolved configuration values after loading.
type Config struct {
	TelegramToken  string
	WebAppURL      string
	HomepageURL    string
	OperatorChatID int64
	SupportHandle  string
	AppEnv         string
	LogLevel       string
	HTTPPort       int
	FollowUpDelay  time.Duration
}

// Load resolves configuration from the environment (with optional dotenv in development).
func Load() (Config, error) {
	appEnv, err := resolveAppEnv()
	if err != nil {
		return Config{}, err
	}

	if err := loadDotEnv(appEnv); err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:        firstNonEmpty(normalizeEnv(os.Getenv(KeyAppEnv)), appEnv),
		TelegramToken: strings.TrimSpace(os.Getenv(KeyTelegramToken)),
		WebAppURL:     strings.TrimRight(strings.TrimSpace(os.Getenv(KeyWebAppURL)), "/"),
		HomepageURL:   strings.TrimSpace(os.Getenv(KeyHomepageURL)),
		SupportHandle: firstNonEmpty(strings.TrimSpace(os.Getenv(KeySupportHandle)), DefaultSupportHandle),
		LogLevel:      firstNonEmpty(strings.TrimSpace(os.Getenv(KeyLogLevel)), DefaultLogLevel),
		HTTPPort:      DefaultHTTPPort,
		FollowUpDelay: DefaultFollowUpDelayMS * time.Millisecond,
	}

	if err := validateAppEnv(cfg.AppEnv); err != nil {
		return Config{}, err
	}

	missing := make([]string, 0)

	if cfg.TelegramToken == "" {
		missing = append(missing, KeyTelegramToken)
	}

	if cfg.WebAppURL == "" {
		missing = append(missing, KeyWebAppURL)
	} else if err := validateURL(KeyWebAppURL, cfg.WebAppURL); err != nil {
		return Config{}, err
	}

	if cfg.HomepageURL == "" {
		missing = append(missing, KeyHomepageURL)
	} else if err := validateURL(KeyHomepageURL, cfg.HomepageURL); err != nil {
		return Config{}, err
	}

	operatorRaw := strings.TrimSpace(os.Getenv(KeyOperatorChat))
	if operatorRaw == "" {
		missing = append(missing, KeyOperatorChat)
	} else {
		operatorID, parseErr := strconv.ParseInt(operatorRaw, 10, 64)
		if parseErr != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", KeyOperatorChat, parseErr)
		}
		cfg.OperatorChatID = operatorID
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variable(s): %s", strings.Join(missing, ", "))
	}

	httpPortRaw := strings.TrimSpace(os.Getenv(KeyHTTPPort))
	if httpPortRaw != "" {
		port, parseErr := strconv.Atoi(httpPortRaw)
		if parseErr != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", KeyHTTPPort, parseErr)
		}
		if port <= 0 {
			return Config{}, fmt.Errorf("%s must be greater than 0", KeyHTTPPort)
		}
		cfg.HTTPPort = port
	}

	delayRaw := strings.TrimSpace(os.Getenv(KeyFollowUpDelay))
	if delayRaw != "" {
		delayMS, parseErr := strconv.Atoi(delayRaw)
		if parseErr != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", KeyFollowUpDelay, parseErr)
		}
		if delayMS <= 0 {
			return Config{}, fmt.Errorf("%s must be greater than 0", KeyFollowUpDelay)
		}
		cfg.FollowUpDelay = time.Duration(delayMS) * time.Millisecond
	}

	return cfg, nil
}

// FormURL returns the web-app URL pointing at the lead form sub-path.
func (c Config) FormURL() string {
	return c.WebAppURL + "/form"
}

// IsDevelopment reports if APP_ENV is development.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// FormatRedacted renders the resolved configuration with the token hidden.
func FormatRedacted(c Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s=%s\n", KeyTelegramToken, redactToken(c.TelegramToken))
	fmt.Fprintf(&b, "%s=%s\n", KeyWebAppURL, c.WebAppURL)
	fmt.Fprintf(&b, "%s=%s\n", KeyHomepageURL, c.HomepageURL)
	fmt.Fprintf(&b, "%s=%d\n", KeyOperatorChat, c.OperatorChatID)
	fmt.Fprintf(&b, "%s=%s\n", KeySupportHandle, c.SupportHandle)
	fmt.Fprintf(&b, "%s=%s\n", KeyAppEnv, c.AppEnv)
	fmt.Fprintf(&b, "%s=%s\n", KeyLogLevel, c.LogLevel)
	fmt.Fprintf(&b, "%s=%d\n", KeyHTTPPort, c.HTTPPort)
	fmt.Fprintf(&b, "%s=%d", KeyFollowUpDelay, c.FollowUpDelay.Milliseconds())
	return b.String()
}

func redactToken(token string) string {
	if token == "" {
		return ""
	}
	if idx := strings.IndexByte(token, ':'); idx > 0 {
		return token[:idx] + ":***"
	}
	return "***"
}

func validateURL(key, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("invalid %s: must be an absolute http(s) URL", key)
	}
	return nil
}

func resolveAppEnv() (string, error) {
	if explicit := normalizeEnv(os.Getenv(KeyAppEnv)); explicit != "" {
		return explicit, nil
	}

	dotEnvValues, err := godotenv.Read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultAppEnv, nil
		}
		return "", fmt.Errorf("read .env: %w", err)
	}

	if envFromFile := normalizeEnv(dotEnvValues[KeyAppEnv]); envFromFile != "" {
		return envFromFile, nil
	}

	return DefaultAppEnv, nil
}

func loadDotEnv(appEnv string) error {
	if appEnv != EnvDevelopment {
		return nil
	}

	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}

func validateAppEnv(appEnv string) error {
	if appEnv == EnvDevelopment || appEnv == EnvProduction {
		return nil
	}

	return fmt.Errorf("invalid %s: must be %q or %q", KeyAppEnv, EnvDevelopment, EnvProduction)
}

func normalizeEnv(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func firstNonEmpty(values ...string) string {
	for _, val := range values {
		if strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}
