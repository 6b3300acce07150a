package secrets

import "context"

// Source is a backend holding flat key/value credential material.
// Implementations must be safe for concurrent use.
type Source interface {
	// Name returns the source identifier (e.g., "env", "files", "aws").
	Name() string

	// Lookup returns the value stored under key. A missing key is reported with
	// ok == false and a nil error; err is reserved for backend failures.
	Lookup(ctx context.Context, key string) (value string, ok bool, err error)
}

// Keys under which the credential material is looked up.
const (
	KeyPasswordFlowUsername = "password_flow_username"
	KeyPasswordFlowPassword = "password_flow_password"
	KeyTokenFlowUsername    = "token_flow_username"
	KeyTokenFlowToken       = "token_flow_token"
)
