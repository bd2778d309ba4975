package gdocs

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/qri-io/jsonschema"
)

// Credentials is the service-account key file issued by the document
// provider's console.
type Credentials struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	PrivateKey  string `json:"private_key"`
	ClientEmail string `json:"client_email"`
	TokenURI    string `json:"token_uri"`
}

// The credential JSON is validated against this schema before any use so
// a malformed key file fails at the boundary instead of mid-exchange.
const credentialSchema = `{
  "type": "object",
  "required": ["type", "private_key", "client_email", "token_uri"],
  "properties": {
    "type": {"type": "string", "const": "service_account"},
    "project_id": {"type": "string"},
    "private_key": {"type": "string", "minLength": 1},
    "client_email": {"type": "string", "minLength": 3},
    "token_uri": {"type": "string", "minLength": 1}
  }
}`

// ParseCredentials validates and decodes a service-account JSON blob and
// parses its RSA signing key.
func ParseCredentials(ctx context.Context, raw []byte) (Credentials, *rsa.PrivateKey, error) {
	if len(raw) == 0 {
		return Credentials{}, nil, &AuthError{Reason: "service account credential is not configured"}
	}

	schema := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(credentialSchema), schema); err != nil {
		return Credentials{}, nil, fmt.Errorf("credential schema: %w", err)
	}
	keyErrs, err := schema.ValidateBytes(ctx, raw)
	if err != nil {
		return Credentials{}, nil, &AuthError{Reason: "service account credential is not valid JSON", Err: err}
	}
	if len(keyErrs) > 0 {
		return Credentials{}, nil, &AuthError{Reason: fmt.Sprintf("service account credential is malformed: %s", keyErrs[0].Error())}
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return Credentials{}, nil, &AuthError{Reason: "service account credential decode failed", Err: err}
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(creds.PrivateKey))
	if err != nil {
		return Credentials{}, nil, &AuthError{Reason: "service account private key is not a valid RSA PEM", Err: err}
	}
	return creds, key, nil
}
