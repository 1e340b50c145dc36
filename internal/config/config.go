package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	Engine EngineParams
}

// EngineParams are the business tunables of the accrual engine. The exact
// amounts are operator policy, not logic, so they come from the environment
// with the documented defaults.
type EngineParams struct {
	// Fixed charge for a missed payment once the grace period lapses.
	PenaltyAmount float64
	// Weekly charge for loans still unpaid past their theoretical end date.
	EscalatedWeeklyAmount float64
	// Days after a due date before the standard penalty applies.
	GracePeriodDays int
	// Days past the theoretical end date before a loan defaults.
	DefaultAfterDays int
	// Annual rate accrued daily on defaulted balances.
	DefaultAnnualRate float64

	// Credit-score deltas.
	OnTimePaymentScoreDelta int
	PenaltyScoreDelta       int
	DefaultScoreDelta       int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvFloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "lendsim"),
		MySQLUser: getenv("MYSQL_USER", "lendsim"),
		MySQLPass: getenv("MYSQL_PASS", "lendsim"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getenvInt("REDIS_DB", 0),

		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		Engine: EngineParams{
			PenaltyAmount:           getenvFloat("PENALTY_AMOUNT", 200),
			EscalatedWeeklyAmount:   getenvFloat("ESCALATED_PENALTY_WEEKLY_AMOUNT", 250),
			GracePeriodDays:         getenvInt("GRACE_PERIOD_DAYS", 3),
			DefaultAfterDays:        getenvInt("DEFAULT_AFTER_DAYS", 60),
			DefaultAnnualRate:       getenvFloat("DEFAULT_ANNUAL_RATE", 0.24),
			OnTimePaymentScoreDelta: getenvInt("ONTIME_PAYMENT_SCORE_DELTA", 5),
			PenaltyScoreDelta:       getenvInt("PENALTY_SCORE_DELTA", -15),
			DefaultScoreDelta:       getenvInt("DEFAULT_SCORE_DELTA", -100),
		},
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.Engine.GracePeriodDays < 0 || c.Engine.DefaultAfterDays <= 0 {
		return errors.New("engine day thresholds must be non-negative")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
