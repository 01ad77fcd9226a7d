package syncer

// Config holds the sync engine settings.
type Config struct {
	// TimeoutSeconds is the per-request timeout applied to every endpoint
	// handle opened during a run.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// InsecureSkipVerify disables TLS verification toward firewall and
	// security-platform endpoints (self-signed management interfaces).
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" default:"false"`
	// MaxConcurrentScopes bounds the scope reconciliations running in
	// parallel against one firewall endpoint.
	MaxConcurrentScopes int `mapstructure:"max_concurrent_scopes" default:"4"`

	// Per-priority scheduler intervals in minutes. Zero disables the
	// scheduled runs of that class.
	IntervalLowMinutes    int `mapstructure:"interval_low_minutes" default:"1440"`
	IntervalMediumMinutes int `mapstructure:"interval_medium_minutes" default:"60"`
	IntervalHighMinutes   int `mapstructure:"interval_high_minutes" default:"5"`
}
