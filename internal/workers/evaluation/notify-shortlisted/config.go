// internal/workers/evaluation/notify-shortlisted/config.go
package notifyshortlisted

import "time"

type Config struct {
	Timeout      time.Duration
	FromEmail    string
	SMSSenderID  string
	EmailEnabled bool
	SMSEnabled   bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		FromEmail:    "no-reply@kjet.go.ke",
		SMSSenderID:  "KJET",
		EmailEnabled: true,
		SMSEnabled:   true,
	}
}
