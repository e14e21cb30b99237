package config

import "os"

// Credential variables in priority order.
var apiKeyEnvs = []string{"API_KEY", "GEMINI_API_KEY"}

// KeyStatus reports whether the model credential is configured and where it came from.
type KeyStatus struct {
	IsSet  bool   `json:"is_set"`
	Source string `json:"source"` // env variable name, "config" or "none"
	Masked string `json:"masked,omitempty"`
}

// CheckAPIKey describes the resolved Gemini credential without exposing it.
func CheckAPIKey(cfg *Config) KeyStatus {
	key := cfg.Gemini.APIKey
	if key == "" {
		return KeyStatus{Source: "none"}
	}
	status := KeyStatus{IsSet: true, Source: "config", Masked: maskKey(key)}
	for _, env := range apiKeyEnvs {
		if os.Getenv(env) == key {
			status.Source = env
			break
		}
	}
	return status
}

// maskKey shows only the first and last 3 characters.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
