package adapter

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/pauljones0/offer-importer/internal/models"
)

const offer1Name = "offer1"

// Offer1Adapter reads payloads shaped as {"response": {"offers": [...]}}.
type Offer1Adapter struct{}

func (Offer1Adapter) ProviderName() string { return offer1Name }

func (a Offer1Adapter) Transform(payload []byte) ([]models.Offer, error) {
	root, err := parsePayload(offer1Name, payload)
	if err != nil {
		return nil, err
	}

	response := root.Get("response")
	if !response.IsObject() {
		return nil, malformed(offer1Name, "response", "must be an object")
	}
	entries := response.Get("offers")
	if !entries.IsArray() {
		return nil, malformed(offer1Name, "response.offers", "must be an array")
	}

	var offers []models.Offer
	var entryErr error
	idx := -1
	entries.ForEach(func(_, entry gjson.Result) bool {
		idx++
		field := fmt.Sprintf("response.offers[%d]", idx)
		if !entry.IsObject() {
			entryErr = malformed(offer1Name, field, "must be an object")
			return false
		}
		id, err := externalID(offer1Name, field+".offer_id", entry.Get("offer_id"))
		if err != nil {
			entryErr = err
			return false
		}

		o := newOffer(offer1Name, id)
		o.Name = entry.Get("offer_name").String()
		o.Description = entry.Get("offer_desc").String()
		o.Requirements = entry.Get("call_to_action").String()
		o.Thumbnail = entry.Get("image_url").String()
		o.OfferURLTemplate = entry.Get("offer_url").String()
		o.Platforms = offer1Platforms(entry.Get("platform").String(), entry.Get("device").String())
		finalize(&o)

		offers = append(offers, o)
		return true
	})
	if entryErr != nil {
		return nil, entryErr
	}
	return offers, nil
}

// offer1Platforms maps the categorical device field: "iphone_ipad" is iOS only,
// every other device value is Android. Desktop support comes from platform.
func offer1Platforms(platform, device string) models.PlatformFlags {
	ios := device == "iphone_ipad"
	return models.PlatformFlags{
		SupportsDesktop: platform == "desktop",
		SupportsIOS:     ios,
		SupportsAndroid: !ios,
	}
}
