package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"eager-graphql/internal/sqlutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadWithArgs(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	// Keep any eager-graphql.yaml in the working tree out of the test.
	t.Chdir(t.TempDir())
	fs := NewFlagSet("test")
	require.NoError(t, fs.Parse(args))
	return LoadFromFlags(fs)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name: "mysql from fields",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     3306,
				User:     "root",
				Password: "password",
				Database: "test",
			},
			expected: "root:password@tcp(localhost:3306)/test?parseTime=true",
		},
		{
			name: "mysql special characters in password",
			config: DatabaseConfig{
				Driver:   "mysql",
				Host:     "db.example.com",
				Port:     3306,
				User:     "admin",
				Password: "p@ss:w0rd!",
				Database: "mydb",
			},
			expected: "admin:p@ss:w0rd!@tcp(db.example.com:3306)/mydb?parseTime=true",
		},
		{
			name: "mysql dsn gains parseTime",
			config: DatabaseConfig{
				Driver:           "mysql",
				ConnectionString: "u:p@tcp(h:3306)/db",
			},
			expected: "u:p@tcp(h:3306)/db?parseTime=true",
		},
		{
			name: "mysql tls mode",
			config: DatabaseConfig{
				ConnectionString: "u:p@tcp(h:3306)/db?parseTime=true",
				TLS:              DatabaseTLSConfig{Mode: "skip-verify"},
			},
			expected: "u:p@tcp(h:3306)/db?parseTime=true&tls=skip-verify",
		},
		{
			name: "postgres from fields",
			config: DatabaseConfig{
				Driver:   "postgres",
				Host:     "pg",
				Port:     5432,
				User:     "app",
				Password: "pw",
				Database: "graph",
				SSLMode:  "disable",
			},
			expected: "postgres://app:pw@pg:5432/graph?sslmode=disable",
		},
		{
			name: "postgres dsn passes through",
			config: DatabaseConfig{
				Driver:           "postgres",
				ConnectionString: "host=pg dbname=graph",
			},
			expected: "host=pg dbname=graph",
		},
		{
			name:     "sqlite path",
			config:   DatabaseConfig{Driver: "sqlite", Database: "/var/lib/graph.db"},
			expected: "/var/lib/graph.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
		})
	}
}

func TestDatabaseConfig_Dialect(t *testing.T) {
	d := DatabaseConfig{Driver: "postgresql"}
	dialect, err := d.Dialect()
	require.NoError(t, err)
	assert.Equal(t, sqlutil.DialectPostgres, dialect)

	d.Driver = "oracle"
	_, err = d.Dialect()
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadWithArgs(t)
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.Pool.MaxOpen)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Server.GraphQLMaxPageSize)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "eager-graphql", cfg.Observability.ServiceName)
	assert.False(t, cfg.Validate().HasErrors(), cfg.Validate().Error())
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("EGQL_SERVER_PORT", "9000")
	t.Setenv("EGQL_SERVER_GRAPHQL_MAX_PAGE_SIZE", "25")
	t.Setenv("EGQL_DATABASE_HOST", "envhost")

	cfg, err := loadWithArgs(t, "--server.port=9100", "--database.driver=postgres")
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port, "flag beats env")
	assert.Equal(t, 25, cfg.Server.GraphQLMaxPageSize, "env beats default")
	assert.Equal(t, "envhost", cfg.Database.Host)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: sqlite
  database: ":memory:"
  pool:
    max_open: 1
server:
  graphql_max_page_size: 10
  cors_enabled: true
  cors_allowed_origins: "https://a.example, https://b.example"
`), 0600))

	cfg, err := loadWithArgs(t, "--config", path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.DSN())
	assert.Equal(t, 10, cfg.Server.GraphQLMaxPageSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.False(t, cfg.Validate().HasErrors(), cfg.Validate().Error())
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  graphql_max_depth: 5\n"), 0600))

	_, err := loadWithArgs(t, "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config")
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	_, err := loadWithArgs(t, "--config", "/nonexistent/eager-graphql.yaml")
	require.Error(t, err)
}

func TestLoad_PasswordFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "password")
	require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0600))

	cfg, err := loadWithArgs(t, "--database.password_file", path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Database.Password)
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		t.Helper()
		cfg, err := loadWithArgs(t)
		require.NoError(t, err)
		return cfg
	}

	t.Run("unknown driver", func(t *testing.T) {
		cfg := valid(t)
		cfg.Database.Driver = "oracle"
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Equal(t, "database.driver", result.Errors[0].Field)
	})

	t.Run("page size must be positive", func(t *testing.T) {
		cfg := valid(t)
		cfg.Server.GraphQLMaxPageSize = 0
		result := cfg.Validate()
		require.True(t, result.HasErrors())
		assert.Contains(t, result.Error(), "server.graphql_max_page_size")
	})

	t.Run("invalid mysql dsn", func(t *testing.T) {
		cfg := valid(t)
		cfg.Database.ConnectionString = "not a dsn"
		assert.Contains(t, cfg.Validate().Error(), "database.dsn")
	})

	t.Run("invalid postgres url", func(t *testing.T) {
		cfg := valid(t)
		cfg.Database.Driver = "postgres"
		cfg.Database.ConnectionString = "postgres://%zz"
		assert.Contains(t, cfg.Validate().Error(), "database.dsn")
	})

	t.Run("wildcard cors with credentials", func(t *testing.T) {
		cfg := valid(t)
		cfg.Server.CORSEnabled = true
		cfg.Server.CORSAllowedOrigins = []string{"*"}
		cfg.Server.CORSAllowCredentials = true
		result := cfg.Validate()
		assert.True(t, result.HasErrors())
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("verify-ca needs ca file", func(t *testing.T) {
		cfg := valid(t)
		cfg.Database.TLS.Mode = "verify-ca"
		assert.Contains(t, cfg.Validate().Error(), "database.tls.ca_file")
	})

	t.Run("sample ratio bounds", func(t *testing.T) {
		cfg := valid(t)
		cfg.Observability.TraceSampleRatio = 1.5
		assert.Contains(t, cfg.Validate().Error(), "trace_sample_ratio")
	})
}

func TestMergeOTLPConfigs(t *testing.T) {
	obs := ObservabilityConfig{
		OTLP: OTLPConfig{
			Endpoint:    "collector:4317",
			Protocol:    "grpc",
			Headers:     map[string]string{"a": "1"},
			Compression: "gzip",
		},
		Traces: &OTLPConfig{
			Endpoint: "http://traces:4318",
			Protocol: "http/protobuf",
			Insecure: true,
			Headers:  map[string]string{"b": "2"},
		},
	}

	traces := obs.GetTracesConfig()
	assert.Equal(t, "http://traces:4318", traces.Endpoint)
	assert.Equal(t, "http/protobuf", traces.Protocol)
	assert.True(t, traces.Insecure)
	assert.Equal(t, "gzip", traces.Compression)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, traces.Headers)

	assert.Equal(t, obs.OTLP, obs.GetLogsConfig())
}
