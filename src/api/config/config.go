package config

import (
	"log"
	"os"
)

type Config struct {
	MySQLDSN    string
	RedisURL    string
	JWTSecret   string
	Port        string
	TLSCertFile string
	TLSKeyFile  string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func Load() Config {
	return Config{
		MySQLDSN:    getenv("MYSQL_DSN", "daoverse:daoverse@tcp(127.0.0.1:3306)/daoverse?parseTime=true"),
		RedisURL:    getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
		JWTSecret:   getenv("JWT_SECRET", ""),
		Port:        getenv("PORT", "8080"),
		TLSCertFile: os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:  os.Getenv("TLS_KEY_FILE"),
	}
}
