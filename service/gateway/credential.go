package gateway

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/viant/scy"
	_ "github.com/viant/scy/kms/blowfish"
)

// APIKey configures the API Gateway key, either inline or as an encrypted
// secret resolved through scy.
type APIKey struct {
	Value     string `json:"value,omitempty" yaml:"value,omitempty"`
	SecretURL string `json:"secretURL,omitempty" yaml:"secretURL,omitempty"`
	// SecretKey is the scy encryption key, e.g. blowfish://default.
	SecretKey string `json:"secretKey,omitempty" yaml:"secretKey,omitempty"`
}

// IsEmpty returns true when no key is configured.
func (k *APIKey) IsEmpty() bool {
	return k == nil || (k.Value == "" && k.SecretURL == "")
}

// RevealAPIKey returns the plain API key. Inline values win over secrets.
func RevealAPIKey(ctx context.Context, key *APIKey) (string, error) {
	if key.IsEmpty() {
		return "", nil
	}
	if key.Value != "" {
		return strings.TrimSpace(key.Value), nil
	}
	resource := scy.NewResource(nil, key.SecretURL, key.SecretKey)
	secret, err := scy.New().Load(ctx, resource)
	if err != nil {
		return "", errors.Wrapf(err, "failed to load api key from %s", key.SecretURL)
	}
	return strings.TrimSpace(secret.String()), nil
}
