package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the engine host
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	Env string `validate:"oneof=development staging production"`

	// Engine defaults
	Engine EngineConfig

	// Risk limits
	Limits LimitsConfig

	// Logging
	LogLevel  string `validate:"oneof=debug info warn warning error disabled off"`
	LogFormat string `validate:"oneof=json console pretty"`
}

// EngineConfig holds default calculation parameters
type EngineConfig struct {
	// Sharpe 무위험 수익률 (기간 단위)
	RiskFreeRate float64
	// EMA 평활 계수 [0, 1]
	EMAAlpha float64 `validate:"gte=0,lte=1"`
	// 섹터 벤치마크 비중 (%), 입력 누락 시 사용
	BenchmarkSectorWeight float64 `validate:"gte=0,lte=100"`
}

// LimitsConfig holds risk limit thresholds used by risk.Engine.CheckLimits
type LimitsConfig struct {
	MaxDrawdown   float64 `validate:"gt=0"`
	MaxVolatility float64 `validate:"gt=0"`
	BetaMin       float64
	BetaMax       float64 `validate:"gtefield=BetaMin"`
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Engine: EngineConfig{
			RiskFreeRate:          getEnvAsFloat("RISK_FREE_RATE", 0.02),
			EMAAlpha:              getEnvAsFloat("EMA_ALPHA", 0.2),
			BenchmarkSectorWeight: getEnvAsFloat("BENCHMARK_SECTOR_WEIGHT", 10.0),
		},

		Limits: LimitsConfig{
			MaxDrawdown:   getEnvAsFloat("MAX_DRAWDOWN_LIMIT", 0.15),
			MaxVolatility: getEnvAsFloat("MAX_VOLATILITY_LIMIT", 0.25),
			BetaMin:       getEnvAsFloat("BETA_MIN", 0.5),
			BetaMax:       getEnvAsFloat("BETA_MAX", 1.5),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are usable.
// 플래그로 값을 덮어쓴 뒤에도 다시 호출할 것
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: failed %q rule (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}
	return nil
}

var structValidator = validator.New()

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
