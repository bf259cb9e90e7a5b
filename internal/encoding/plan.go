package encoding

import (
	"fmt"
	"math"
	"strconv"

	"vidfit/internal/config"
	"vidfit/internal/services"
)

// kbitsPerMB converts megabytes to kilobits (1 MB = 1024 KB = 8192 kbit).
const kbitsPerMB = 8192

// maxVideoKbps caps the video bitrate so it always fits ffmpeg's int bitrate option.
const maxVideoKbps = math.MaxInt32

// Settings holds the fixed encoder parameters shared by every plan.
type Settings struct {
	VideoCodec       string
	Preset           string
	AudioBitrateKbps int
	CRF              int
	ReducedFPSCRF    int
}

// DefaultSettings returns the libx264 parameters used when no configuration is supplied.
func DefaultSettings() Settings {
	return SettingsFromConfig(nil)
}

// SettingsFromConfig extracts encoder settings from cfg, falling back to defaults.
func SettingsFromConfig(cfg *config.Config) Settings {
	enc := config.Default().Encoding
	if cfg != nil {
		enc = cfg.Encoding
	}
	return Settings{
		VideoCodec:       enc.VideoCodec,
		Preset:           enc.Preset,
		AudioBitrateKbps: enc.AudioBitrateKbps,
		CRF:              enc.CRF,
		ReducedFPSCRF:    enc.ReducedFPSCRF,
	}
}

// Plan is the derived encoder configuration for one request.
type Plan struct {
	TargetBitrateKbps float64 `json:"target_bitrate_kbps"`
	VideoBitrateKbps  int     `json:"video_bitrate_kbps"`
	AudioBitrateKbps  int     `json:"audio_bitrate_kbps"`
	VideoCodec        string  `json:"video_codec"`
	Preset            string  `json:"preset"`
	CRF               int     `json:"crf"`
	FrameRate         int     `json:"frame_rate,omitempty"`
	Filter            string  `json:"filter,omitempty"`
}

// TargetBitrate returns the average bitrate in kbps that fits sizeMB into the
// given duration. A non-positive or non-finite duration is a probe failure.
func TargetBitrate(sizeMB, durationSeconds float64) (float64, error) {
	if math.IsNaN(durationSeconds) || math.IsInf(durationSeconds, 0) || durationSeconds <= 0 {
		return 0, services.Wrap(
			services.ErrProbe,
			stageName,
			"target bitrate",
			fmt.Sprintf("invalid media duration %v seconds", durationSeconds),
			nil,
		)
	}
	return sizeMB * kbitsPerMB / durationSeconds, nil
}

// BuildPlan derives the encoder plan for req from the probed duration.
func BuildPlan(req Request, durationSeconds float64, settings Settings) (Plan, error) {
	if err := req.Validate(); err != nil {
		return Plan{}, err
	}
	bitrate, err := TargetBitrate(req.TargetSizeMB, durationSeconds)
	if err != nil {
		return Plan{}, err
	}
	if bitrate > maxVideoKbps {
		return Plan{}, services.Wrap(
			services.ErrValidation,
			stageName,
			"build plan",
			fmt.Sprintf("target size %v MB is too large for %.2f seconds of video", req.TargetSizeMB, durationSeconds),
			nil,
		)
	}
	video := int(bitrate)
	if video < 1 {
		return Plan{}, services.Wrap(
			services.ErrValidation,
			stageName,
			"build plan",
			fmt.Sprintf("target size %v MB is too small for %.2f seconds of video", req.TargetSizeMB, durationSeconds),
			nil,
		)
	}

	plan := Plan{
		TargetBitrateKbps: bitrate,
		VideoBitrateKbps:  video,
		AudioBitrateKbps:  settings.AudioBitrateKbps,
		VideoCodec:        settings.VideoCodec,
		Preset:            settings.Preset,
		CRF:               settings.CRF,
	}
	if req.ReducesFrameRate() {
		plan.CRF = settings.ReducedFPSCRF
		plan.FrameRate = req.FrameRate
		plan.Filter = "fps=" + strconv.Itoa(req.FrameRate)
	}
	return plan, nil
}

// Args renders the ffmpeg argument list for the plan.
func (p Plan) Args(input, output string) []string {
	args := []string{
		"-y",
		"-i", input,
		"-b:v", strconv.Itoa(p.VideoBitrateKbps) + "k",
		"-b:a", strconv.Itoa(p.AudioBitrateKbps) + "k",
		"-c:v", p.VideoCodec,
		"-preset", p.Preset,
		"-crf", strconv.Itoa(p.CRF),
	}
	if p.FrameRate > 0 {
		args = append(args, "-r", strconv.Itoa(p.FrameRate))
	}
	if p.Filter != "" {
		args = append(args, "-vf", p.Filter)
	}
	return append(args, output)
}
