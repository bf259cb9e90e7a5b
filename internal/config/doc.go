// Package config loads, normalizes, and validates vidfit configuration data.
//
// It supplies repository defaults (ffmpeg/ffprobe binaries, the libx264 "slow"
// preset, the 128k audio bitrate and the two quality factors), expands user
// paths including tilde shortcuts, reads TOML files, and honours environment
// overrides such as VIDFIT_FFMPEG and VIDFIT_FFPROBE, optionally sourced from a
// .env file in the working directory.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
