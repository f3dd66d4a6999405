package reconcile

import "time"

// Settings holds the configurable knobs of list reconciliation.
type Settings struct {
	// MaxDiffOps makes a snapshot diff larger than this fall back to a full
	// reload. Zero disables the fallback.
	MaxDiffOps int `mapstructure:"max_diff_ops" default:"200"`
	// CacheTTLSeconds is how long fetch results are cached. Zero disables it.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"30"`
	// VisibleRows is how many rows a table view renders eagerly.
	VisibleRows int `mapstructure:"visible_rows" default:"50"`
	// ListFetchLimit caps the master list.
	ListFetchLimit int `mapstructure:"list_fetch_limit" default:"20"`
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (s Settings) CacheTTL() time.Duration {
	if s.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(s.CacheTTLSeconds) * time.Second
}
