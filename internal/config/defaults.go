package config

const (
	defaultLogDir            = "~/.local/share/centerview/logs"
	defaultCenterDir         = "center"
	defaultNotCenterDir      = "not_center"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultJournalMaxEntries = 1000
)

func defaultExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".tif", ".tiff"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Labels: Labels{
			CenterDir:    defaultCenterDir,
			NotCenterDir: defaultNotCenterDir,
		},
		Scan: Scan{
			Extensions: defaultExtensions(),
		},
		Journal: Journal{
			Enabled:    true,
			MaxEntries: defaultJournalMaxEntries,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
