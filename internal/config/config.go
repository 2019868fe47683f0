package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Store backend names accepted in LEDGER_STORE.
const (
	StoreJSON     = "json"
	StorePostgres = "postgres"
)

// Config is everything the binary needs, assembled from the environment.
type Config struct {
	Store        string // json or postgres
	LedgerFile   string // path of the JSON snapshot file
	DBConnStr    string // postgres connection string
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads a .env file when present and falls back to defaults for
// anything unset. The defaults run the binary against a local bank.json with
// no broker, matching a plain interactive session.
func Load() Config {
	_ = godotenv.Load() // a missing .env file is fine

	cfg := Config{
		Store:      getenv("LEDGER_STORE", StoreJSON),
		LedgerFile: getenv("LEDGER_FILE", "bank.json"),
		KafkaTopic: getenv("KAFKA_TOPIC", "ledger.transactions"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	cfg.DBConnStr = os.Getenv("DB_CONN_STR")
	if cfg.DBConnStr == "" {
		// Build it from individual vars (Docker friendly)
		host := getenv("DB_HOST", "localhost")
		port := getenv("DB_PORT", "5432")
		user := getenv("DB_USER", "postgres")
		password := getenv("DB_PASSWORD", "postgres")
		dbname := getenv("DB_NAME", "bankledger")

		cfg.DBConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
