package config

const (
	defaultLogDir           = "~/.local/share/skymark/logs"
	defaultHistoryDB        = "~/.local/share/skymark/history.db"
	defaultWorkers          = 4
	defaultCameraMake       = "DJI"
	defaultCameraModel      = "DJI Mini 3 Pro"
	defaultCameraKeywords   = "Drone; DJI; Mini 3 Pro; Telemetry"
	defaultSubtitleLanguage = "en"
	defaultSubtitleHandler  = "Telemetry"
	defaultSubtitleTitle    = "DJI Telemetry"
	defaultExiftoolBinary   = "exiftool"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Scan: Scan{
			VideoExtensions:     []string{".mp4", ".mov"},
			TelemetryExtensions: []string{".srt"},
		},
		Pipeline: Pipeline{
			Workers: defaultWorkers,
		},
		Camera: Camera{
			Make:     defaultCameraMake,
			Model:    defaultCameraModel,
			Keywords: defaultCameraKeywords,
		},
		Subtitles: Subtitles{
			Enabled:     true,
			Language:    defaultSubtitleLanguage,
			HandlerName: defaultSubtitleHandler,
			TrackTitle:  defaultSubtitleTitle,
		},
		Tools: Tools{
			Exiftool: defaultExiftoolBinary,
			FFmpeg:   defaultFFmpegBinary,
			FFprobe:  defaultFFprobeBinary,
		},
		Recycle: Recycle{
			RecordingExtensions: []string{".MP4", ".mp4", ".MOV", ".mov"},
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
