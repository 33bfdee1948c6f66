package buildinfo

// Set via -ldflags at release time.
var (
	Version   = "dev"
	Revision  = "unknown"
	BuildDate = "unknown"
)
