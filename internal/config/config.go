package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is read from the environment once at startup.
type Config struct {
	Addr      string `env:"ADDR" envDefault:":8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	StoreDriver  string        `env:"STORE_DRIVER" envDefault:"sqlite"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"15s"`
	SQLitePath   string        `env:"SQLITE_PATH" envDefault:"alumni.db"`

	FirebaseCredentialsFile string `env:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirestoreCollection     string `env:"FIRESTORE_COLLECTION" envDefault:"alumniMeetupRegistrations"`

	RegistrationOpen bool          `env:"REGISTRATION_OPEN" envDefault:"true"`
	AttendanceToggle bool          `env:"ATTENDANCE_TOGGLE" envDefault:"true"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	MaxSessions      int           `env:"MAX_SESSIONS" envDefault:"10000"`

	WhatsappGroupURL string `env:"WHATSAPP_GROUP_URL" envDefault:"https://chat.whatsapp.com/YOUR_GROUP_LINK"`
	StayConnectedURL string `env:"STAY_CONNECTED_URL" envDefault:"https://your-website.com/stay-connected"`

	EventDate     string   `env:"EVENT_DATE" envDefault:"27th December"`
	EventVenue    string   `env:"EVENT_VENUE" envDefault:"MBCET Campus"`
	EventContacts []string `env:"EVENT_CONTACTS" envSeparator:","`

	TelegramToken         string `env:"TG_BOT_TOKEN"`
	TelegramOrganiserChat int64  `env:"TG_ORGANISER_CHAT_ID"`
}

const (
	DriverSQLite    = "sqlite"
	DriverFirestore = "firestore"
)

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH must not be empty")
		}
	case DriverFirestore:
		// An empty FIREBASE_SERVICE_ACCOUNT_KEY_PATH falls back to application
		// default credentials or FIRESTORE_EMULATOR_HOST.
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID environment variable not set")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreTimeout < 0 {
		return errors.New("STORE_TIMEOUT must not be negative")
	}
	if c.MaxSessions < 0 {
		return errors.New("MAX_SESSIONS must not be negative")
	}
	return nil
}

// TelegramEnabled reports whether organiser notifications are configured.
func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramOrganiserChat != 0
}
