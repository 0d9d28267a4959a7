package installer

// Settings is what the wizard writes to .env. Pointer fields keep an
// explicit false in the file.
type Settings struct {
	LLMProvider string `env:"TIAN_LLM_PROVIDER"`
	LLMModel    string `env:"TIAN_LLM_MODEL"`
	LLMAPIKey   string `env:"TIAN_LLM_API_KEY"`
	LLMBaseURL  string `env:"TIAN_LLM_BASE_URL"`

	QWeatherHost string `env:"TIAN_QWEATHER_HOST"`
	QWeatherKey  string `env:"TIAN_QWEATHER_KEY"`

	EnableCLI          *bool  `env:"TIAN_ENABLE_CLI"`
	EnableTelegram     *bool  `env:"TIAN_ENABLE_TELEGRAM"`
	TelegramToken      string `env:"TIAN_TELEGRAM_TOKEN"`
	TelegramAllowedIDs string `env:"TIAN_TELEGRAM_ALLOWED_IDS"`
}

type InstallState struct {
	Settings Settings
}

func NewInstallState() *InstallState {
	return &InstallState{}
}

func (s *InstallState) telegramEnabled() bool {
	return s.Settings.EnableTelegram != nil && *s.Settings.EnableTelegram
}
