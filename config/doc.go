// Package config loads podscribe's configuration.
//
// Values come from a YAML file (config.yml in the working directory,
// ./config, ./cmd/podscribe or the user config directory) and a .env file,
// then environment variables override them: download.output_dir is read
// from PODSCRIBE_DOWNLOAD_OUTPUT_DIR.
//
//	cfg, err := config.Load(config.WithConfigFile("podscribe.yml"))
//
// Provider settings live under transcription.providers.<name> and
// diarization.providers.<name> and are decoded by each provider's factory.
package config
