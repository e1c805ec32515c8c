package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hurou927/derivedcol/internal/config"
)

func TestPoolConfig(t *testing.T) {
	cfg := &config.Connection{
		Host:     "localhost",
		Port:     5433,
		Database: "seed",
		User:     "seed",
		Password: "secret",
		SSLMode:  "disable",
		MaxConns: 3,
	}

	poolCfg, err := poolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(3), poolCfg.MaxConns)
	assert.Equal(t, "localhost", poolCfg.ConnConfig.Host)
	assert.Equal(t, uint16(5433), poolCfg.ConnConfig.Port)
	assert.Equal(t, "seed", poolCfg.ConnConfig.Database)
	assert.Equal(t, applicationName, poolCfg.ConnConfig.RuntimeParams["application_name"])
}
