package inspection

import "time"

// Config holds batch processing and report settings.
type Config struct {
	// Concurrency is the number of spreadsheets processed at once.
	Concurrency int `mapstructure:"concurrency" default:"10"`
	// ReportTitle heads the exported vulnerable parts report.
	ReportTitle string `mapstructure:"report_title" default:"易损件清单"`
	// RunTTLMinutes is how long an unfinished run is kept in memory.
	RunTTLMinutes int `mapstructure:"run_ttl_minutes" default:"120"`
}

// RunTTL returns the run retention as a duration.
func (c Config) RunTTL() time.Duration {
	if c.RunTTLMinutes <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(c.RunTTLMinutes) * time.Minute
}
