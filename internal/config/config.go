// Package config 负责加载 facade-api 的运行配置：默认值、YAML 文件、FACADE_* 环境变量依次覆盖。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 是进程级配置。
type Config struct {
	HTTP            HTTPConfig      `yaml:"http"`
	GRPC            GRPCConfig      `yaml:"grpc"`
	Metrics         MetricsConfig   `yaml:"metrics"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
	CORS            CORSConfig      `yaml:"cors"`
	Log             LogConfig       `yaml:"log"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
}

type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	MaxBodyBytes int64         `yaml:"maxBodyBytes"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// GRPCConfig 默认关闭。Addr 支持 host:port、unix:// 与 vsock://。
type GRPCConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type RateLimitConfig struct {
	Enabled bool          `yaml:"enabled"`
	RPS     float64       `yaml:"rps"`
	Burst   int           `yaml:"burst"`
	IdleTTL time.Duration `yaml:"idleTTL"`
}

// CORSConfig 为空时允许任意来源。
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// LogConfig 中 File 为空时输出到 stdout。
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// Default 返回默认配置。
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:         ":8080",
			MaxBodyBytes: 2 << 20,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		GRPC:    GRPCConfig{Addr: ":9090"},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
		RateLimit: RateLimitConfig{
			RPS:     50,
			Burst:   100,
			IdleTTL: 10 * time.Minute,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 14,
		},
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load 读取 path 指向的 YAML（为空则跳过），再应用环境变量覆盖并校验。
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	ApplyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnvOverrides 用 FACADE_* 环境变量覆盖配置，无法解析的值被忽略。
func ApplyEnvOverrides(cfg *Config) {
	if v := readString("FACADE_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := readInt("FACADE_HTTP_MAX_BODY_BYTES"); v > 0 {
		cfg.HTTP.MaxBodyBytes = int64(v)
	}
	if d := readDuration("FACADE_HTTP_READ_TIMEOUT"); d > 0 {
		cfg.HTTP.ReadTimeout = d
	}
	if d := readDuration("FACADE_HTTP_WRITE_TIMEOUT"); d > 0 {
		cfg.HTTP.WriteTimeout = d
	}
	if b, ok := readBool("FACADE_GRPC_ENABLED"); ok {
		cfg.GRPC.Enabled = b
	}
	if v := readString("FACADE_GRPC_ADDR"); v != "" {
		cfg.GRPC.Addr = v
	}
	if b, ok := readBool("FACADE_METRICS_ENABLED"); ok {
		cfg.Metrics.Enabled = b
	}
	if v := readString("FACADE_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}
	if b, ok := readBool("FACADE_RATE_LIMIT_ENABLED"); ok {
		cfg.RateLimit.Enabled = b
	}
	if f := readFloat("FACADE_RATE_LIMIT_RPS"); f > 0 {
		cfg.RateLimit.RPS = f
	}
	if v := readInt("FACADE_RATE_LIMIT_BURST"); v > 0 {
		cfg.RateLimit.Burst = v
	}
	if d := readDuration("FACADE_RATE_LIMIT_IDLE_TTL"); d > 0 {
		cfg.RateLimit.IdleTTL = d
	}
	if v := readString("FACADE_CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = splitList(v)
	}
	if v := readString("FACADE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := readString("FACADE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := readString("FACADE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if d := readDuration("FACADE_SHUTDOWN_TIMEOUT"); d > 0 {
		cfg.ShutdownTimeout = d
	}
}

// Validate 检查配置组合是否可用。
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("http.maxBodyBytes must be positive"))
	}
	if c.GRPC.Enabled && strings.TrimSpace(c.GRPC.Addr) == "" {
		errs = append(errs, errors.New("grpc.addr is required when grpc is enabled"))
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with '/': %q", c.Metrics.Path))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("rateLimit.rps and rateLimit.burst must be positive"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log.format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

func readString(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func readInt(key string) int {
	value := readString(key)
	if value == "" {
		return 0
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return v
}

func readFloat(key string) float64 {
	value := readString(key)
	if value == "" {
		return 0
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return v
}

func readDuration(key string) time.Duration {
	value := readString(key)
	if value == "" {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func readBool(key string) (bool, bool) {
	value := readString(key)
	if value == "" {
		return false, false
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, false
	}
	return b, true
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
