// Package utils holds process-level helpers: the logger, the version lookup, and shared names.
package utils

const (
	// ApplicationName is the binary name.
	ApplicationName = "gitingest-agent"

	// GlobalConfigDirectoryName is created under the home directory for global configuration.
	GlobalConfigDirectoryName = ".gitingest-agent"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// LocalConfigFileName is the per-project configuration file in the working directory.
	LocalConfigFileName = ".gitingest-agent.yaml"
	// EnvironmentPrefix prefixes environment overrides, e.g. GITINGEST_AGENT_TOKENS_MODEL.
	EnvironmentPrefix = "GITINGEST_AGENT"

	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"

	// LoggerInitializationFailedMessageFormat is printed when the logger cannot be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %v\n"
)
