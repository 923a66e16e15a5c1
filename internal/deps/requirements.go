package deps

import "skymark/internal/config"

// Requirements returns the external tools a run may invoke, resolved from
// the configured binary names. ExifTool is the only hard requirement; runs
// degrade gracefully without the others.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "ExifTool",
			Command:     cfg.Tools.Exiftool,
			Description: "Writes telemetry metadata into exports",
		},
		{
			Name:        "FFmpeg",
			Command:     cfg.Tools.FFmpeg,
			Description: "Embeds telemetry subtitle tracks",
			Optional:    true,
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Tools.FFprobe,
			Description: "Detects existing telemetry subtitle tracks",
			Optional:    true,
		},
	}
}
