package data

import (
	"text/template"
	"time"

	"djp.chapter42.de/printerbridge/internal/auth"
)

type BridgeConfig struct {
	Port          string              `mapstructure:"port"`
	Debug         bool                `mapstructure:"debug"`
	LogFile       string              `mapstructure:"log_file"`
	HomeAssistant HomeAssistantConfig `mapstructure:"home_assistant"`
	Printer       PrinterConfig       `mapstructure:"printer"`
	Queue         QueueConfig         `mapstructure:"queue"`
	Cache         CacheConfig         `mapstructure:"cache"`
	CORS          CORSConfig          `mapstructure:"cors"`
}

type HomeAssistantConfig struct {
	BaseURL   string          `mapstructure:"base_url"`
	WSURL     string          `mapstructure:"ws_url"`
	Transport string          `mapstructure:"transport"` // rest, websocket
	Domain    string          `mapstructure:"domain"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	Endpoints EndpointConfig  `mapstructure:"endpoints"`
	Auth      auth.AuthConfig `mapstructure:"auth"`
	Reconnect ReconnectConfig `mapstructure:"reconnect"`

	// Caching vorbereiteter Templates
	ParsedCallServiceTpl *template.Template `mapstructure:"-"`
	ParsedStateTpl       *template.Template `mapstructure:"-"`

	// Authentication provider
	AuthProvider auth.AuthProvider `mapstructure:"-"`
}

type EndpointConfig struct {
	CallService string `mapstructure:"call_service"`
	State       string `mapstructure:"state"`
}

type ReconnectConfig struct {
	Base     time.Duration `mapstructure:"base"`
	Max      time.Duration `mapstructure:"max"`
	Attempts int           `mapstructure:"attempts"`
}

// PrinterConfig is the entity binding plus the optional sensors shown in the status.
type PrinterConfig struct {
	Entity      string            `mapstructure:"entity"`
	Title       string            `mapstructure:"title"`
	PaperSensor string            `mapstructure:"paper_sensor"`
	UsageSensor string            `mapstructure:"usage_sensor"`
	Counters    map[string]string `mapstructure:"counters"`
}

type QueueConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Delay    time.Duration `mapstructure:"delay"`
	Capacity int           `mapstructure:"capacity"`
	History  int           `mapstructure:"history"`
}

type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}
