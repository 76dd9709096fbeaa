package utils

import (
	"fmt"
	"os"
	"strings"
)

const dockerSecretsDir = "/run/secrets"

// ReadSecret читает секрет из файла в стандартном пути Docker Secrets.
func ReadSecret(secretName string) (string, error) {
	return readSecretFile(dockerSecretsDir, secretName)
}

// ReadSecretOrEnv читает секрет из Docker Secrets, а если файла нет, из переменной окружения envKey.
func ReadSecretOrEnv(secretName, envKey string) (string, error) {
	return readSecretOrEnv(dockerSecretsDir, secretName, envKey)
}

func readSecretOrEnv(dir, secretName, envKey string) (string, error) {
	secret, fileErr := readSecretFile(dir, secretName)
	if fileErr == nil {
		return secret, nil
	}
	if value := strings.TrimSpace(os.Getenv(envKey)); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("secret %s not found in file or env %s: %w", secretName, envKey, fileErr)
}

func readSecretFile(dir, secretName string) (string, error) {
	filePath := fmt.Sprintf("%s/%s", dir, secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}
