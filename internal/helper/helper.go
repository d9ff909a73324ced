package helper

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vasigorc/items-api/config"
	"github.com/vasigorc/items-api/internal/models"
)

func retrieveCredentials[T any](ctx context.Context, secretName string, secretsManagerClient config.SecretsManagerAPI) (T, error) {
	var creds T

	input, err := config.RetrieveSecret(ctx, secretName, secretsManagerClient)
	if err != nil {
		logrus.WithFields(logrus.Fields{"secret_name": secretName}).WithError(err).Error("Failed to retrieve credentials")
		return creds, fmt.Errorf("error retrieving credentials from Secrets Manager (%s): %w", secretName, err)
	}

	if err := json.Unmarshal([]byte(input), &creds); err != nil {
		logrus.WithFields(logrus.Fields{"secret_name": secretName}).WithError(err).Error("Failed to unmarshal credentials")
		return creds, fmt.Errorf("invalid credentials format: %w", err)
	}

	logrus.WithField("credential_type", fmt.Sprintf("%T", creds)).Info("Successfully retrieved credentials")
	return creds, nil
}

// RetrieveWriteKey fetches the write API key guarding mutating operations.
func RetrieveWriteKey(ctx context.Context, secretName string, secretsManagerClient config.SecretsManagerAPI) (models.WriteKeyCreds, error) {
	return retrieveCredentials[models.WriteKeyCreds](ctx, secretName, secretsManagerClient)
}
