package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/core-coin/walletsync/internal/config"
)

func runLoadConfig(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	var cfg *config.Config
	app := &cli.App{
		Name:  "walletsync",
		Flags: flags(),
		Action: func(c *cli.Context) error {
			var err error
			cfg, err = loadConfig(c)
			return err
		},
	}
	err := app.Run(append([]string{"walletsync"}, args...))
	return cfg, err
}

func TestLoadConfig_FlagsSupplyRequiredValues(t *testing.T) {
	t.Setenv("PRIVY_APP_ID", "")
	t.Setenv("PRIVY_APP_SECRET", "secret")
	t.Setenv("DATABASE_DRIVER", "mysql")

	cfg, err := runLoadConfig(t,
		"--privy-app-id", "app-from-flag",
		"--database-driver", "sqlite",
		"--sqlite-path", "/tmp/walletsync-test.db",
		"--api-port", "9191",
	)
	require.NoError(t, err)
	assert.Equal(t, "app-from-flag", cfg.PrivyAppID)
	assert.Equal(t, config.DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "/tmp/walletsync-test.db", cfg.SQLitePath)
	assert.Equal(t, 9191, cfg.APIPort)
}

func TestLoadConfig_StillValidatesAfterFlags(t *testing.T) {
	t.Setenv("PRIVY_APP_ID", "")
	t.Setenv("PRIVY_APP_SECRET", "secret")

	_, err := runLoadConfig(t, "--api-port", "9191")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRIVY_APP_ID")
}
