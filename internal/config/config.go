// internal/config/config.go
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Printer   PrinterConfig   `mapstructure:"printer"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Security  SecurityConfig  `mapstructure:"security"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	App       AppConfig       `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TLS          TLSConfig     `mapstructure:"tls"`
}

// TLSConfig represents TLS configuration
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// PrinterConfig describes the printer the service writes encoded jobs to.
// Connection "none" runs the service as a pure encoder.
type PrinterConfig struct {
	Connection         string           `mapstructure:"connection"`
	MotionUnitsPerInch int              `mapstructure:"motion_units_per_inch"`
	JobTimeout         time.Duration    `mapstructure:"job_timeout"`
	ResponseBytes      int              `mapstructure:"response_bytes"`
	Serial             SerialPortConfig `mapstructure:"serial"`
	TCP                TCPPortConfig    `mapstructure:"tcp"`
	USB                USBPortConfig    `mapstructure:"usb"`
}

// SerialPortConfig represents serial port configuration
type SerialPortConfig struct {
	Port     string        `mapstructure:"port"`
	BaudRate int           `mapstructure:"baud_rate"`
	DataBits int           `mapstructure:"data_bits"`
	StopBits int           `mapstructure:"stop_bits"`
	Parity   string        `mapstructure:"parity"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// TCPPortConfig represents a raw TCP (port 9100) printer
type TCPPortConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	KeepAlive      bool          `mapstructure:"keep_alive"`
}

// USBPortConfig represents a USB printer class device
type USBPortConfig struct {
	VendorID  string        `mapstructure:"vendor_id"`
	ProductID string        `mapstructure:"product_id"`
	Endpoint  int           `mapstructure:"endpoint"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// DiscoveryConfig controls the printer port scanners. TCPTargets holds hosts or CIDR
// ranges checked on TCPPort; an empty list disables the TCP scanner.
type DiscoveryConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	TCPTargets    []string      `mapstructure:"tcp_targets"`
	TCPPort       int           `mapstructure:"tcp_port"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"`
	MaxConcurrent int           `mapstructure:"max_concurrent"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxBodyBytes   int64    `mapstructure:"max_body_bytes"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

const envPrefix = "ESCPOS_SERVICE"

// Load loads configuration from config.yaml in the working directory or ./config,
// then environment variables
func Load() (*Config, error) {
	return LoadFrom(".", "./config")
}

// LoadFrom is Load with explicit search paths. A missing config file is not an
// error: defaults and environment variables still apply.
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8085")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.tls.enabled", false)

	// Printer defaults
	v.SetDefault("printer.connection", "none")
	v.SetDefault("printer.motion_units_per_inch", 180)
	v.SetDefault("printer.job_timeout", "10s")
	v.SetDefault("printer.response_bytes", 32)

	v.SetDefault("printer.serial.baud_rate", 9600)
	v.SetDefault("printer.serial.data_bits", 8)
	v.SetDefault("printer.serial.stop_bits", 1)
	v.SetDefault("printer.serial.parity", "none")
	v.SetDefault("printer.serial.timeout", "2s")

	v.SetDefault("printer.tcp.port", 9100)
	v.SetDefault("printer.tcp.connect_timeout", "5s")
	v.SetDefault("printer.tcp.read_timeout", "2s")
	v.SetDefault("printer.tcp.write_timeout", "10s")
	v.SetDefault("printer.tcp.keep_alive", true)

	v.SetDefault("printer.usb.endpoint", 1)
	v.SetDefault("printer.usb.timeout", "5s")

	// Discovery defaults
	v.SetDefault("discovery.timeout", "10s")
	v.SetDefault("discovery.tcp_targets", []string{})
	v.SetDefault("discovery.tcp_port", 9100)
	v.SetDefault("discovery.dial_timeout", "500ms")
	v.SetDefault("discovery.max_concurrent", 32)

	// Security defaults
	v.SetDefault("security.allowed_origins", []string{"*"})
	v.SetDefault("security.max_body_bytes", 1<<20)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// App defaults
	v.SetDefault("app.name", "escpos-service")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
}

var (
	validEnvs        = []string{"development", "staging", "production", "test"}
	validLevels      = []string{"debug", "info", "warn", "error", "fatal"}
	validConnections = []string{"none", "serial", "usb", "tcp"}
	validBaudRates   = []int{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200}
)

func validate(config *Config) error {
	if config.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	if !slices.Contains(validEnvs, config.App.Environment) {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}
	if !slices.Contains(validLevels, config.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	p := &config.Printer
	p.Connection = strings.ToLower(p.Connection)
	if !slices.Contains(validConnections, p.Connection) {
		return fmt.Errorf("printer.connection must be one of: %v", validConnections)
	}
	if p.MotionUnitsPerInch < 1 || p.MotionUnitsPerInch > 255 {
		return fmt.Errorf("printer.motion_units_per_inch must be in [1,255], got %d", p.MotionUnitsPerInch)
	}
	if p.ResponseBytes < 1 {
		return fmt.Errorf("printer.response_bytes must be positive")
	}
	if p.JobTimeout <= 0 {
		return fmt.Errorf("printer.job_timeout must be positive")
	}

	switch p.Connection {
	case "serial":
		if p.Serial.Port == "" {
			return fmt.Errorf("printer.serial.port is required")
		}
		if !slices.Contains(validBaudRates, p.Serial.BaudRate) {
			return fmt.Errorf("invalid baud rate: %d", p.Serial.BaudRate)
		}
	case "tcp":
		if p.TCP.Host == "" {
			return fmt.Errorf("printer.tcp.host is required")
		}
		if p.TCP.Port < 1 || p.TCP.Port > 65535 {
			return fmt.Errorf("invalid port number: %d", p.TCP.Port)
		}
	case "usb":
		if p.USB.VendorID == "" || p.USB.ProductID == "" {
			return fmt.Errorf("printer.usb.vendor_id and printer.usb.product_id are required")
		}
	}

	d := &config.Discovery
	if d.Timeout <= 0 {
		return fmt.Errorf("discovery.timeout must be positive")
	}
	if d.TCPPort < 1 || d.TCPPort > 65535 {
		return fmt.Errorf("invalid discovery.tcp_port: %d", d.TCPPort)
	}
	if d.MaxConcurrent < 1 {
		return fmt.Errorf("discovery.max_concurrent must be positive")
	}

	return nil
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment checks if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsDebugEnabled checks if debug mode is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug || c.IsDevelopment()
}

// HasPrinter reports whether a printer transport is configured
func (c *Config) HasPrinter() bool {
	return c.Printer.Connection != "none"
}
