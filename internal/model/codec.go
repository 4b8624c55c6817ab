package model

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags of v. Used for records and transport requests alike.
func Validate(v any) error {
	return validate.Struct(v)
}

// EncodeIdentity serializes the identity into the durable record format.
func EncodeIdentity(identity Identity) ([]byte, error) {
	if err := Validate(identity); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal identity: %w", err)
	}

	return data, nil
}

// DecodeIdentity parses and shape-checks a durable record.
// Records without an onboarding field get it derived from role and profile.
func DecodeIdentity(data []byte) (Identity, error) {
	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	if identity.Onboarding == "" {
		identity.Onboarding = identity.derivedOnboarding()
	}

	if err := Validate(identity); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	return identity, nil
}
