package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/podscribe/config"
	"github.com/kbukum/podscribe/logger"
)

type rootFlags struct {
	configFile string
	envFile    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "podscribe",
		Short: "Turn podcast and video links into speaker-labeled transcripts",
		Long: `podscribe downloads the audio behind an Apple Podcasts, Xiaoyuzhou,
Bilibili or YouTube link, transcribes it with a Whisper sidecar, labels
speakers with a Pyannote sidecar and writes SRT, plain and diarized
transcripts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file (default: search ./config.yml, ./config/config.yml, user config dir)")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "dotenv file loaded before the environment is read")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		newRunCmd(flags),
		newAlignCmd(flags),
		newServeCmd(flags),
		newVersionCmd(),
	)
	return cmd
}

// load reads configuration and initializes the global logger from it.
func (f *rootFlags) load() (*config.Config, error) {
	var opts []config.LoaderOption
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}
	if f.verbose {
		cfg.Logging.Level = "debug"
	}
	logger.Init(cfg.Logging)
	return cfg, nil
}
