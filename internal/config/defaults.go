package config

const (
	defaultProjectsDir            = "~/.local/share/chronoreel/projects"
	defaultLogDir                 = "~/.local/share/chronoreel/logs"
	defaultAPIBind                = "127.0.0.1:8766"
	defaultWikipediaBaseURL       = "https://en.wikipedia.org/api/rest_v1"
	defaultWikipediaTimeout       = 15
	defaultElevenLabsBaseURL      = "https://api.elevenlabs.io/v1"
	defaultElevenLabsVoiceID      = "21m00Tcm4TlvDq8ikWAM"
	defaultElevenLabsModel        = "eleven_monolingual_v1"
	defaultElevenLabsTimeout      = 60
	defaultPollinationsBaseURL    = "https://image.pollinations.ai"
	defaultPollinationsWidth      = 1920
	defaultPollinationsHeight     = 1080
	defaultPollinationsTimeout    = 120
	defaultNovaReelModelID        = "amazon.nova-reel-v1:0"
	defaultNovaReelRegion         = "us-east-1"
	defaultNovaReelPollInterval   = 10
	defaultNovaReelPollAttempts   = 60
	defaultNovaReelDuration       = 6
	defaultNovaReelFPS            = 24
	defaultNovaReelDimension      = "1280x720"
	defaultFFmpegBinary           = "ffmpeg"
	defaultFFmpegTimeout          = 300
	defaultJobsQueueCapacity      = 64
	defaultJobsStatusRetention    = 256
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectsDir: defaultProjectsDir,
			LogDir:      defaultLogDir,
			APIBind:     defaultAPIBind,
		},
		Wikipedia: Wikipedia{
			BaseURL:        defaultWikipediaBaseURL,
			TimeoutSeconds: defaultWikipediaTimeout,
		},
		ElevenLabs: ElevenLabs{
			VoiceID:        defaultElevenLabsVoiceID,
			Model:          defaultElevenLabsModel,
			BaseURL:        defaultElevenLabsBaseURL,
			TimeoutSeconds: defaultElevenLabsTimeout,
		},
		Pollinations: Pollinations{
			BaseURL:        defaultPollinationsBaseURL,
			Width:          defaultPollinationsWidth,
			Height:         defaultPollinationsHeight,
			TimeoutSeconds: defaultPollinationsTimeout,
		},
		NovaReel: NovaReel{
			ModelID:             defaultNovaReelModelID,
			Region:              defaultNovaReelRegion,
			PollIntervalSeconds: defaultNovaReelPollInterval,
			PollMaxAttempts:     defaultNovaReelPollAttempts,
			DurationSeconds:     defaultNovaReelDuration,
			FPS:                 defaultNovaReelFPS,
			Dimension:           defaultNovaReelDimension,
		},
		FFmpeg: FFmpeg{
			Binary:         defaultFFmpegBinary,
			TimeoutSeconds: defaultFFmpegTimeout,
		},
		Jobs: Jobs{
			QueueCapacity:   defaultJobsQueueCapacity,
			StatusRetention: defaultJobsStatusRetention,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
