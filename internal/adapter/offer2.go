package adapter

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/pauljones0/offer-importer/internal/models"
)

const offer2Name = "offer2"

// Offer2Adapter reads payloads shaped as {"data": {"<key>": {"Offer": {...}, "OS": {...}}}}.
// An array under "data" is accepted as well. Entries are emitted in payload order.
type Offer2Adapter struct{}

func (Offer2Adapter) ProviderName() string { return offer2Name }

func (a Offer2Adapter) Transform(payload []byte) ([]models.Offer, error) {
	root, err := parsePayload(offer2Name, payload)
	if err != nil {
		return nil, err
	}

	data := root.Get("data")
	if !data.IsObject() && !data.IsArray() {
		return nil, malformed(offer2Name, "data", "must be an object or array")
	}

	var offers []models.Offer
	var entryErr error
	idx := -1
	data.ForEach(func(key, entry gjson.Result) bool {
		idx++
		field := "data." + key.String()
		if data.IsArray() {
			field = fmt.Sprintf("data[%d]", idx)
		}

		o, err := offer2Entry(field, entry)
		if err != nil {
			entryErr = err
			return false
		}
		offers = append(offers, o)
		return true
	})
	if entryErr != nil {
		return nil, entryErr
	}
	return offers, nil
}

func offer2Entry(field string, entry gjson.Result) (models.Offer, error) {
	if !entry.IsObject() {
		return models.Offer{}, malformed(offer2Name, field, "must be an object")
	}
	src := entry.Get("Offer")
	if !src.IsObject() {
		return models.Offer{}, malformed(offer2Name, field+".Offer", "must be an object")
	}
	osFlags := entry.Get("OS")
	if !osFlags.IsObject() {
		return models.Offer{}, malformed(offer2Name, field+".OS", "must be an object")
	}
	id, err := externalID(offer2Name, field+".Offer.campaign_id", src.Get("campaign_id"))
	if err != nil {
		return models.Offer{}, err
	}

	o := newOffer(offer2Name, id)
	o.Name = src.Get("name").String()
	o.Description = src.Get("description").String()
	o.Requirements = src.Get("instructions").String()
	o.Thumbnail = src.Get("icon").String()
	o.OfferURLTemplate = src.Get("tracking_url").String()
	o.Platforms = models.PlatformFlags{
		SupportsDesktop: osFlags.Get("web").Bool(),
		SupportsIOS:     osFlags.Get("ios").Bool(),
		SupportsAndroid: osFlags.Get("android").Bool(),
	}
	finalize(&o)
	return o, nil
}
