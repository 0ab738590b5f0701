package bwireapp

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	addr() string
	serviceName() string
	healthPath() string
	logLevel() zapcore.Level
	otelExporter() string
	parseCookies() bool
	staticDir() string
	staticPrefix() string
	maxBodyBytes() int64
	maxConns() int
	readTimeout() time.Duration
	writeTimeout() time.Duration
}

// BaseEnvironment contains the environment variables every app reads.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Addr         string        `env:"BW_ADDR" envDefault:":8080"`
	ServiceName  string        `env:"BW_SERVICE_NAME,required"`
	HealthPath   string        `env:"BW_HEALTH_PATH" envDefault:"/health"`
	LogLevel     zapcore.Level `env:"BW_LOG_LEVEL" envDefault:"info"`
	OtelExporter string        `env:"BW_OTEL_EXPORTER" envDefault:"stdout"`
	ParseCookies bool          `env:"BW_PARSE_COOKIES" envDefault:"true"`
	// StaticDir is served under StaticPrefix when set.
	StaticDir    string        `env:"BW_STATIC_DIR"`
	StaticPrefix string        `env:"BW_STATIC_PREFIX" envDefault:"/static"`
	MaxBodyBytes int64         `env:"BW_MAX_BODY_BYTES" envDefault:"1048576"`
	MaxConns     int           `env:"BW_MAX_CONNS" envDefault:"0"`
	ReadTimeout  time.Duration `env:"BW_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"BW_WRITE_TIMEOUT" envDefault:"30s"`
}

func (e BaseEnvironment) addr() string {
	return e.Addr
}

func (e BaseEnvironment) serviceName() string {
	return e.ServiceName
}

func (e BaseEnvironment) healthPath() string {
	return e.HealthPath
}

func (e BaseEnvironment) logLevel() zapcore.Level {
	return e.LogLevel
}

func (e BaseEnvironment) otelExporter() string {
	return e.OtelExporter
}

func (e BaseEnvironment) parseCookies() bool {
	return e.ParseCookies
}

func (e BaseEnvironment) staticDir() string {
	return e.StaticDir
}

func (e BaseEnvironment) staticPrefix() string {
	return e.StaticPrefix
}

func (e BaseEnvironment) maxBodyBytes() int64 {
	return e.MaxBodyBytes
}

func (e BaseEnvironment) maxConns() int {
	return e.MaxConns
}

func (e BaseEnvironment) readTimeout() time.Duration {
	return e.ReadTimeout
}

func (e BaseEnvironment) writeTimeout() time.Duration {
	return e.WriteTimeout
}

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		return e, nil
	}
}
