// Package utils holds the ambient plumbing shared by forksweep commands.
//
// ConfigurationLoader layers embedded defaults, an optional configuration file,
// and FORKSWEEP_* environment variables through Viper. LoggerFactory builds zap
// loggers for diagnostics on standard error, and FlushingWriter keeps operator
// facing progress output visible while a run is in flight.
package utils
