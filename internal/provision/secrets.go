package provision

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"imgbotctl/internal/envfile"
)

// EnvSource reads the secret bundle from the process environment, for
// non-interactive installs (CI images, golden hosts). Getenv is a field so
// tests don't touch the real environment; nil means os.Getenv.
type EnvSource struct {
	Getenv func(string) string
}

func (s *EnvSource) Collect(_ context.Context) (SecretBundle, error) {
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	var bundle SecretBundle

	bundle.Token = strings.TrimSpace(getenv("TELEGRAM_TOKEN"))
	if bundle.Token == "" {
		return SecretBundle{}, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}
	bundle.APIKey = strings.TrimSpace(getenv("OPENAI_API_KEY"))
	if bundle.APIKey == "" {
		return SecretBundle{}, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	raw := strings.TrimSpace(getenv("ADMIN_TELEGRAM_ID"))
	if raw == "" {
		return SecretBundle{}, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return SecretBundle{}, fmt.Errorf("ADMIN_TELEGRAM_ID %q is not an integer", raw)
	}
	bundle.AdminID = id

	bundle.Model = strings.TrimSpace(getenv("MODEL"))
	if bundle.Model == "" {
		bundle.Model = DefaultModel
	}

	for _, v := range []string{bundle.Token, bundle.APIKey, bundle.Model} {
		if err := envfile.ValidateValue(v); err != nil {
			return SecretBundle{}, err
		}
	}
	return bundle, nil
}
