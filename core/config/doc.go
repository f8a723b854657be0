// Package config provides configuration management for the spare-parts manager.
//
// It utilizes Viper and godotenv for loading configuration from an optional
// config.yaml, an optional .env file and environment variables, later sources
// winning. Defaults come from the `default` struct tags of each section, and
// environment keys follow SECTION_KEY. LoadConfig rejects an unknown key
// scheme, an unsupported database driver and enabled storage without a bucket.
//
// # Configuration Structure
//
//   - Server: HTTP port, body limit, shutdown grace period
//   - Database: MySQL or SQLite connection, pool and timeouts
//   - Storage: S3/MinIO credentials, bucket and report prefix
//   - Log: logging level, format and output
//   - Registry: identity key scheme (composite or single) and cache TTL
//   - Inspection: batch concurrency and report title
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Registry.KeyScheme)
package config
