package cli

import _ "embed"

// defaultConfigurationContent mirrors the config.yaml sample in README.md.
//
//go:embed default_config.yaml
var defaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns a copy of the built-in forksweep settings for the common, github, and tools
// sections together with their YAML type, ready to be merged beneath user configuration files.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return append([]byte(nil), defaultConfigurationContent...), configurationTypeConstant
}
