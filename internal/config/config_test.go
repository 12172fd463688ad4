package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`
server:
  port: 8080
database:
  driver: memory
jwt:
  secret: ` + secret + `
`))
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.True(t, cfg.Booking.CancelActiveAllowed())
	assert.Equal(t, "0 0 2 * * *", cfg.Scheduler.ReconcileAvailability)
	assert.Equal(t, 60, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "./uploads", cfg.Storage.UploadDir)
	assert.Equal(t, ":8080", cfg.GetServerAddress())
}

func TestParse_BookingPolicy(t *testing.T) {
	cfg, err := Parse([]byte(`
server: {port: 8080}
database: {driver: memory}
jwt: {secret: ` + secret + `}
booking:
  allow_cancel_active: false
`))
	require.NoError(t, err)
	assert.False(t, cfg.Booking.CancelActiveAllowed())
}

func TestParse_PostgresRequiresConnection(t *testing.T) {
	_, err := Parse([]byte(`
server: {port: 8080}
jwt: {secret: ` + secret + `}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database host is required")

	cfg, err := Parse([]byte(`
server: {port: 8080}
database: {host: db, user: app, database: carrent}
jwt: {secret: ` + secret + `}
`))
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://app:@db:5432/carrent?sslmode=disable", cfg.GetDatabaseConnectionString())
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"short secret":   "server: {port: 8080}\ndatabase: {driver: memory}\njwt: {secret: short}\n",
		"bad port":       "server: {port: 0}\ndatabase: {driver: memory}\njwt: {secret: " + secret + "}\n",
		"unknown driver": "server: {port: 8080}\ndatabase: {driver: mysql}\njwt: {secret: " + secret + "}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: {port: 8080}\ndatabase: {driver: memory}\njwt: {secret: "+secret+"}\n"), 0o600))

	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BOOKING_ALLOW_CANCEL_ACTIVE", "false")
	t.Setenv("SCHEDULER_RECONCILE_AVAILABILITY", "0 */5 * * * *")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Booking.CancelActiveAllowed())
	assert.Equal(t, "0 */5 * * * *", cfg.Scheduler.ReconcileAvailability)
}

func TestGetSecurityLevel(t *testing.T) {
	assert.Equal(t, SecurityPublic, GetSecurityLevel("Login"))
	assert.Equal(t, SecurityManager, GetSecurityLevel("ApproveRental"))
	assert.Equal(t, SecurityAdmin, GetSecurityLevel("SomethingNew"))
}
