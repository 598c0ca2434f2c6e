package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Credentials are the values needed to sign Tencent Cloud requests
type Credentials struct {
	SecretID  string
	SecretKey string
	Region    string
}

var labels = map[string]string{
	KeySecretID:  "secret id",
	KeySecretKey: "secret key",
	KeyRegion:    "region",
}

// Resolve loads every credential from store. A missing or empty value is
// asked for with prompter and saved. With a nil prompter a missing value
// yields ErrCredentialMissing.
func Resolve(ctx context.Context, store Store, prompter Prompter) (Credentials, error) {
	values := make(map[string]string, len(Keys))

	for _, key := range Keys {
		value, err := resolveKey(ctx, store, prompter, key)
		if err != nil {
			return Credentials{}, err
		}
		values[key] = value
	}

	return Credentials{
		SecretID:  values[KeySecretID],
		SecretKey: values[KeySecretKey],
		Region:    values[KeyRegion],
	}, nil
}

func resolveKey(ctx context.Context, store Store, prompter Prompter, key string) (string, error) {
	value, err := store.Get(key)
	switch {
	case err == nil && value != "":
		return value, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}

	if prompter == nil {
		return "", fmt.Errorf("%s: %w", key, ErrCredentialMissing)
	}

	if key == KeySecretKey {
		value, err = prompter.Password(ctx, labels[key])
	} else {
		value, err = prompter.Input(ctx, labels[key])
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", labels[key], err)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s is empty: %w", labels[key], ErrEmptyInput)
	}

	if err := store.Set(key, value); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", key, err)
	}
	return value, nil
}

// Clear deletes every stored credential. Keys that are already absent are skipped.
func Clear(store Store) error {
	for _, key := range Keys {
		if err := store.Delete(key); err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}
