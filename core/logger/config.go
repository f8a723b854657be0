package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum enabled level (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format selects the encoder: json or console.
	Format string `mapstructure:"format" default:"json"`
	// Output is a zap sink: stderr, stdout or a file path.
	Output string `mapstructure:"output" default:"stderr"`
}
