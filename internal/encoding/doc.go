// Package encoding turns a target file size into an ffmpeg invocation and runs it.
//
// A Compressor probes the input duration, derives the bitrate
// (size_mb * 8192 / seconds), builds a libx264 argument list and runs ffmpeg
// once. Reduced frame-rate output is the same plan with FrameRate set: the
// quality factor rises and `-r`/`-vf fps=` are appended.
//
// Progress lines for the operator go to the writer handed to NewCompressor;
// structured logs go through slog. On a terminal ffmpeg's `-progress` feed
// drives a progress bar.
package encoding
