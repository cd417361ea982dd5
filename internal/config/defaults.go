package config

const (
	defaultConfigPath             = "~/.config/skillbox/config.toml"
	defaultAssemblyAIBaseURL      = "https://api.assemblyai.com/v2"
	defaultAssemblyAIPollInterval = 5
	defaultAssemblyAITimeout      = 300
	defaultGeminiModel            = "gemini-3-pro-image-preview"
	defaultGeminiTimeout          = 180
	defaultGatewayModel           = "gemini-3.1-flash-image-preview"
	defaultGatewayTimeout         = 180
	defaultImageProvider          = ProviderGemini
	defaultImageMaxSizeMB         = 8.0
	defaultImageQualityMin        = 65
	defaultImageQualityMax        = 95
	defaultPngquantBinary         = "pngquant"
	defaultResendBaseURL          = "https://api.resend.com"
	defaultResendUserAgent        = "skillbox/dev"
	defaultResendTimeout          = 30
	defaultResendRetryAttempts    = 3
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultLogMaxSizeMB           = 16
	defaultLogMaxBackups          = 2
	defaultStoragePrefix          = "skillbox"
	envAssemblyAIKey              = "ASSEMBLYAI_API_KEY"
	envGeminiKey                  = "GEMINI_API_KEY"
	envGatewayKey                 = "IMAGE_GATEWAY_API_KEY"
	envGatewayKeyLegacy           = "SPOTIFY_AI_GATEWAY_KEY"
	envGatewayBaseURL             = "IMAGE_GATEWAY_BASE_URL"
	envResendKey                  = "RESEND_API_KEY"
	envStorageEndpoint            = "S3_ENDPOINT"
	envStorageAccessKey           = "S3_ACCESS_KEY"
	envStorageSecretKey           = "S3_SECRET_KEY"
	envStorageBucket              = "S3_BUCKET"
	envStorageRegion              = "S3_REGION"
)

// Image providers accepted by images.provider and the --provider flag.
const (
	ProviderGemini  = "gemini"
	ProviderGateway = "gateway"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		AssemblyAI: AssemblyAI{
			BaseURL:             defaultAssemblyAIBaseURL,
			PollIntervalSeconds: defaultAssemblyAIPollInterval,
			TimeoutSeconds:      defaultAssemblyAITimeout,
			SpeakerLabels:       true,
		},
		Gemini: Gemini{
			Model:          defaultGeminiModel,
			TimeoutSeconds: defaultGeminiTimeout,
		},
		Gateway: Gateway{
			Model:          defaultGatewayModel,
			TimeoutSeconds: defaultGatewayTimeout,
		},
		Images: Images{
			Provider:       defaultImageProvider,
			Compress:       true,
			MaxSizeMB:      defaultImageMaxSizeMB,
			QualityMin:     defaultImageQualityMin,
			QualityMax:     defaultImageQualityMax,
			PngquantBinary: defaultPngquantBinary,
		},
		Resend: Resend{
			BaseURL:        defaultResendBaseURL,
			UserAgent:      defaultResendUserAgent,
			TimeoutSeconds: defaultResendTimeout,
			RetryAttempts:  defaultResendRetryAttempts,
		},
		Storage: Storage{
			UseSSL: true,
			Prefix: defaultStoragePrefix,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}
