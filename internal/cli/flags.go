package cli

import "story/internal/config"

// Flags holds command-line flags
type Flags struct {
	Destination string
	Title       string
	Mode        string
	Literals    string
	Snapshot    string
	MetricsFile string
	HistoryDSN  string
	NoProgress  bool
	Quiet       bool
	NameFilter  string
	OnlyFailed  bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Destination: f.Destination,
		Title:       f.Title,
		Mode:        f.Mode,
		Literals:    f.Literals,
		Snapshot:    f.Snapshot,
		MetricsFile: f.MetricsFile,
		HistoryDSN:  f.HistoryDSN,
		NoProgress:  f.NoProgress,
		Quiet:       f.Quiet,
		NameFilter:  f.NameFilter,
		OnlyFailed:  f.OnlyFailed,
	}
}
