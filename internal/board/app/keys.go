package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tabberone/corkboard/pkg/cryptox"
)

// loadOrCreateSigningKey reads the symmetric token signing key from disk,
// generating and persisting one on first start. Rotating the key is a
// manual operation (delete the file, restart) and invalidates every
// outstanding token.
func loadOrCreateSigningKey(path string, logger *slog.Logger) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key := strings.TrimSpace(string(data))
		if key == "" {
			return nil, fmt.Errorf("signing key file %s is empty", path)
		}
		return []byte(key), nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}

	key, err := cryptox.GenerateKey(cryptox.KeySize256)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(key+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("failed to persist signing key: %w", err)
	}

	logger.Info("generated new token signing key", "path", path)
	return []byte(key), nil
}
