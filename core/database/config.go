package database

// Config holds configuration for the database connection.
type Config struct {
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name. For sqlite this is the file path (or ":memory:").
	Name string `mapstructure:"name" default:"spare_manager"`
	// Driver is the database driver (mysql, sqlite).
	Driver string `mapstructure:"driver" default:"mysql"`
	// TimeoutSeconds bounds connection setup and the startup ping.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"5"`
	// IdleTimeoutSeconds closes pooled connections idle for longer than this.
	IdleTimeoutSeconds int `mapstructure:"idle_timeout_seconds" default:"30"`
	// MaxOpenConns caps the pool size.
	MaxOpenConns int `mapstructure:"max_open_conns" default:"15"`
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)
