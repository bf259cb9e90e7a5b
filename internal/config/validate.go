package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTools() error {
	if strings.TrimSpace(c.Tools.FFmpegBinary) == "" {
		return errors.New("tools.ffmpeg_binary must be set")
	}
	if strings.TrimSpace(c.Tools.FFprobeBinary) == "" {
		return errors.New("tools.ffprobe_binary must be set")
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if strings.TrimSpace(c.Encoding.VideoCodec) == "" {
		return errors.New("encoding.video_codec must be set")
	}
	if strings.TrimSpace(c.Encoding.Preset) == "" {
		return errors.New("encoding.preset must be set")
	}
	if c.Encoding.AudioBitrateKbps <= 0 {
		return errors.New("encoding.audio_bitrate_kbps must be positive")
	}
	if err := ensureCRF("encoding.crf", c.Encoding.CRF); err != nil {
		return err
	}
	return ensureCRF("encoding.reduced_fps_crf", c.Encoding.ReducedFPSCRF)
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && strings.TrimSpace(c.Paths.HistoryPath) == "" {
		return errors.New("paths.history_path must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q (use debug, info, warn or error)", c.Logging.Level)
	}
}

func ensureCRF(key string, value int) error {
	if value < 0 || value > maxCRF {
		return fmt.Errorf("%s must be between 0 and %d", key, maxCRF)
	}
	return nil
}
