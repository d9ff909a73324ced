package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/sirupsen/logrus"
)

type Config struct {
	TableName string

	// WriteKeySecretName is the Secrets Manager secret holding the write
	// API key. Empty means write protection is disabled.
	WriteKeySecretName string
}

type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, input *secretsmanager.GetSecretValueInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

func LoadConfig(ctx context.Context) (*Config, aws.Config, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	tableName := os.Getenv("ITEMS_TABLE_NAME")
	if tableName == "" {
		return nil, aws.Config{}, errors.New("ITEMS_TABLE_NAME environment variable is required")
	}

	writeKeySecret := os.Getenv("WRITE_KEY_SECRET_NAME")

	logrus.WithFields(logrus.Fields{
		"table_name":           tableName,
		"write_key_configured": writeKeySecret != "",
	}).Info("Successfully loaded application configuration")

	return &Config{
		TableName:          tableName,
		WriteKeySecretName: writeKeySecret,
	}, awsCfg, nil
}

func RetrieveSecret(ctx context.Context, secretName string, svc SecretsManagerAPI) (string, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretName),
		VersionStage: aws.String("AWSCURRENT"),
	}

	result, err := svc.GetSecretValue(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve secret: %w", err)
	}

	if result.SecretString == nil {
		return "", fmt.Errorf("secret string is nil")
	}

	return *result.SecretString, nil
}
