package utils

const (
	// GlobalConfigDirectoryName is the per-user directory holding configuration and tokens.
	GlobalConfigDirectoryName = ".pkgdoc"
	// ConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the configuration file looked up in the working directory.
	LocalConfigFileName = ".pkgdoc.yaml"
	// PackagesDirectoryName is the default package search root inside GlobalConfigDirectoryName.
	PackagesDirectoryName = "packages"
	// PackagesPathEnvironmentVariable extends the package search roots.
	PackagesPathEnvironmentVariable = "PKGDOC_PACKAGES_PATH"
)

// ErrorLogFormat defines the formatting string for error log messages.
const ErrorLogFormat = "Error: %v"
