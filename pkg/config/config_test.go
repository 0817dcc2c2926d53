package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, CSV(" kafka:9092 , ,kafka2:9092"))
}

func TestEnvIntDefault(t *testing.T) {
	t.Setenv("BOOKSTORE_TEST_PORT", "9090")
	assert.Equal(t, 9090, EnvIntDefault("BOOKSTORE_TEST_PORT", 8080))

	t.Setenv("BOOKSTORE_TEST_PORT", "not-a-number")
	assert.Equal(t, 8080, EnvIntDefault("BOOKSTORE_TEST_PORT", 8080))

	assert.Equal(t, 8080, EnvIntDefault("BOOKSTORE_TEST_UNSET", 8080))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ES_INDEX", "")
	t.Setenv("KAFKA_BROKERS", "a:1,b:2")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "books", cfg.ESIndex)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
}
