package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostgresTypeName(t *testing.T) {
	assert.Equal(t, "integer", postgresTypeName("integer", "int4"))
	assert.Equal(t, "mood", postgresTypeName("USER-DEFINED", "mood"))
	assert.Equal(t, "ARRAY", postgresTypeName("ARRAY", "_text"))
}
