package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
)

// ServerConfig contains all of the server settings defined in the config file
type ServerConfig struct {
	ListenAddrIP   string
	ListenAddrPort string `validate:"required,numeric"`
	AppName        string `validate:"required"`
	AppDescription string
	WasmPath       string `validate:"required"`
	Prefetch       bool
	HealthInterval int `validate:"gte=0"` // minutes, 0 disables the periodic report
	Metrics        MetricsConfig
	Logging        LoggingConfig
}

// MetricsConfig controls the prometheus endpoint
type MetricsConfig struct {
	Enabled bool
	Path    string `validate:"required_if=Enabled true"`
}

// LoggingConfig stores the logging settings
type LoggingConfig struct {
	Level           string `validate:"oneof=debug info warn error"`
	OutputPath      string `validate:"oneof=stdout file"`
	LogFileLocation string `validate:"required_if=OutputPath file"`
	Format          string `validate:"oneof=text json console"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("serverConfig.ServerAddr", "")
	v.SetDefault("serverConfig.ServerPort", "8000")
	v.SetDefault("app.Name", "Back Office")
	v.SetDefault("app.Description", "Restaurant back-office console")
	v.SetDefault("app.WasmPath", "web/app.wasm")
	v.SetDefault("app.Prefetch", true)
	v.SetDefault("app.HealthInterval", 15)
	v.SetDefault("metrics.Enabled", true)
	v.SetDefault("metrics.Path", "/metrics")
	v.SetDefault("logging.Level", "warn")
	v.SetDefault("logging.OutputPath", "stdout")
	v.SetDefault("logging.LogFileLocation", "posadmin.log")
	v.SetDefault("logging.Format", "text")
}

// NewViper returns a viper instance searching config/ and . for serverConfig
func NewViper() *viper.Viper {
	v := viper.New()
	v.AddConfigPath("config/")
	v.AddConfigPath(".")
	v.SetConfigName("serverConfig")
	return v
}

// Load reads the configuration through v, falling back to defaults when no
// config file is found. Environment variables prefixed POSADMIN_ override
// file values, e.g. POSADMIN_SERVERCONFIG_SERVERPORT.
func Load(v *viper.Viper) (ServerConfig, *slog.Logger, error) {
	setDefaults(v)
	v.SetEnvPrefix("POSADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return ServerConfig{}, nil, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	var serverConfigLive ServerConfig
	serverConfigLive.ListenAddrIP = v.GetString("serverConfig.ServerAddr")
	serverConfigLive.ListenAddrPort = v.GetString("serverConfig.ServerPort")
	serverConfigLive.AppName = v.GetString("app.Name")
	serverConfigLive.AppDescription = v.GetString("app.Description")
	serverConfigLive.WasmPath = filepath.ToSlash(v.GetString("app.WasmPath"))
	serverConfigLive.Prefetch = v.GetBool("app.Prefetch")
	serverConfigLive.HealthInterval = v.GetInt("app.HealthInterval")
	serverConfigLive.Metrics = MetricsConfig{
		Enabled: v.GetBool("metrics.Enabled"),
		Path:    v.GetString("metrics.Path"),
	}
	serverConfigLive.Logging = LoggingConfig{
		Level:           strings.ToLower(v.GetString("logging.Level")),
		OutputPath:      strings.ToLower(v.GetString("logging.OutputPath")),
		LogFileLocation: v.GetString("logging.LogFileLocation"),
		Format:          strings.ToLower(v.GetString("logging.Format")),
	}
	if err := validate.Struct(serverConfigLive); err != nil {
		return ServerConfig{}, nil, validationError(err)
	}

	logger, err := setupLogging(serverConfigLive.Logging)
	if err != nil {
		return ServerConfig{}, nil, err
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Info("Config file loaded", "path", used)
	} else {
		logger.Info("No config file found, using defaults")
	}
	logger.Info("Base Logger is setup!")
	return serverConfigLive, logger, nil
}

// validationError flattens validator errors into one readable error.
func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func setupLogging(cfg LoggingConfig) (*slog.Logger, error) {
	var logWriter io.Writer = os.Stdout
	if cfg.OutputPath == "file" {
		logPath, err := filepath.Abs(filepath.ToSlash(cfg.LogFileLocation))
		if err != nil {
			return nil, fmt.Errorf("unable to create log file path: %w", err)
		}
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("unable to create log file: %w", err)
		}
		logWriter = logFile
		fmt.Println("Logging to file: ", logPath)
	}
	return slog.New(newHandler(logWriter, cfg.Format, parseLevel(cfg.Level))), nil
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	switch format {
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case "console":
		noColor := true
		if f, ok := w.(*os.File); ok {
			noColor = !isatty.IsTerminal(f.Fd())
			if !noColor {
				w = colorable.NewColorable(f)
			}
		}
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
			NoColor:    noColor,
		})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}
}
