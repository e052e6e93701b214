// Package adapter converts provider-specific offer payloads into canonical offers.
package adapter

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/pauljones0/offer-importer/internal/models"
	"github.com/pauljones0/offer-importer/internal/util"
)

// ErrUnknownProvider is returned when no adapter is registered for a provider name.
var ErrUnknownProvider = errors.New("unknown provider")

// Adapter maps one provider's raw catalog payload to canonical offers.
// Implementations hold no mutable state and are safe for concurrent use.
type Adapter interface {
	ProviderName() string
	Transform(payload []byte) ([]models.Offer, error)
}

// MalformedPayloadError reports a payload that does not have the shape an adapter expects.
type MalformedPayloadError struct {
	Provider string
	Field    string
	Reason   string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed %s payload: %s %s", e.Provider, e.Field, e.Reason)
}

func malformed(provider, field, reason string) error {
	return &MalformedPayloadError{Provider: provider, Field: field, Reason: reason}
}

func parsePayload(provider string, payload []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(payload) {
		return gjson.Result{}, malformed(provider, "$", "is not valid JSON")
	}
	root := gjson.ParseBytes(payload)
	if !root.IsObject() {
		return gjson.Result{}, malformed(provider, "$", "is not a JSON object")
	}
	return root, nil
}

// externalID renders a provider offer identifier as a string.
// Numbers keep their literal text so large IDs are not rounded through float64.
func externalID(provider, field string, v gjson.Result) (string, error) {
	switch v.Type {
	case gjson.String:
		return v.Str, nil
	case gjson.Number:
		return v.Raw, nil
	case gjson.Null:
		if !v.Exists() {
			return "", malformed(provider, field, "is missing")
		}
		return "", malformed(provider, field, "is null")
	default:
		return "", malformed(provider, field, "must be a string or number")
	}
}

func newOffer(provider, id string) models.Offer {
	return models.Offer{
		ProviderName:    provider,
		ExternalOfferID: id,
	}
}

func finalize(o *models.Offer) {
	o.Slug = util.Slug(o.Name, o.ProviderName, o.ExternalOfferID)
}
