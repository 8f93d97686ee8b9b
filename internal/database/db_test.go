package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/regadio/regadio-api/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "regadio", DBPass: "s3cret",
		DBHost: "db.internal", DBPort: "3306", DBName: "regadio_content",
	}
	assert.Equal(t,
		"regadio:s3cret@tcp(db.internal:3306)/regadio_content?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}

func TestDSNWithoutPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "root", DBHost: "localhost", DBPort: "3306", DBName: "regadio_content",
	}
	assert.Equal(t,
		"root@tcp(localhost:3306)/regadio_content?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn(cfg))
}
