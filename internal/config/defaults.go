package config

const (
	defaultConfigPath       = "~/.config/vidfit/config.toml"
	projectConfigFile       = "vidfit.toml"
	dotEnvFile              = ".env"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultVideoCodec       = "libx264"
	defaultPreset           = "slow"
	defaultAudioBitrateKbps = 128
	defaultCRF              = 24
	defaultReducedFPSCRF    = 28
	defaultHistoryPath      = "~/.local/share/vidfit/history.db"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	maxCRF                  = 51
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		Encoding: Encoding{
			VideoCodec:       defaultVideoCodec,
			Preset:           defaultPreset,
			AudioBitrateKbps: defaultAudioBitrateKbps,
			CRF:              defaultCRF,
			ReducedFPSCRF:    defaultReducedFPSCRF,
			ShowProgress:     true,
		},
		Paths: Paths{
			HistoryPath: defaultHistoryPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
