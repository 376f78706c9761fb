package config

import "google.golang.org/api/option"

// GoogleClientOptions points Google clients at an explicit service account
// file; without one they use application default credentials.
func (c *Config) GoogleClientOptions() []option.ClientOption {
	if c.GoogleCredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(c.GoogleCredentialsFile)}
}
