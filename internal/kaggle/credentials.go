package kaggle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/olzhaszz/business-data-validation-toolkit/internal/config"
)

// ErrMissingCredentials is returned when no Kaggle API token can be found.
var ErrMissingCredentials = errors.New("kaggle credentials not found")

// Credentials is a Kaggle API token, in the kaggle.json layout.
type Credentials struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

// ResolveCredentials finds the API token. Explicit settings (normally from
// KAGGLE_USERNAME / KAGGLE_KEY) win over the token file.
func ResolveCredentials(settings config.KaggleConfig) (Credentials, error) {
	if settings.Username != "" && settings.Key != "" {
		return Credentials{Username: settings.Username, Key: settings.Key}, nil
	}

	if settings.CredentialsFile == "" {
		return Credentials{}, fmt.Errorf("%w: set KAGGLE_USERNAME and KAGGLE_KEY", ErrMissingCredentials)
	}

	data, err := os.ReadFile(settings.CredentialsFile)
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, fmt.Errorf("%w: set KAGGLE_USERNAME and KAGGLE_KEY or create %s",
			ErrMissingCredentials, settings.CredentialsFile)
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read %s: %w", settings.CredentialsFile, err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse %s: %w", settings.CredentialsFile, err)
	}
	if creds.Username == "" || creds.Key == "" {
		return Credentials{}, fmt.Errorf("%w: %s has no username or key", ErrMissingCredentials, settings.CredentialsFile)
	}
	return creds, nil
}
