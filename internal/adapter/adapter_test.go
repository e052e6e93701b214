package adapter

import (
	"errors"
	"testing"

	"github.com/pauljones0/offer-importer/internal/models"
)

const offer1Payload = `{
  "query": {"limit": 10},
  "response": {
    "currency_name": "Coins",
    "offers": [
      {
        "offer_id": "1001",
        "offer_name": "Free $5 Gift!",
        "offer_desc": "Install and open the app",
        "call_to_action": "Open the app within 7 days",
        "image_url": "https://cdn.offer1.example/1001.png",
        "offer_url": "https://track.offer1.example/1001?sub={user_id}",
        "platform": "desktop",
        "device": "iphone_ipad"
      },
      {
        "offer_id": 98765432109876543,
        "offer_name": "Reach Level 10",
        "offer_desc": "Play until level 10",
        "call_to_action": "Reach level 10",
        "image_url": "https://cdn.offer1.example/2.png",
        "offer_url": "https://track.offer1.example/2",
        "platform": "mobile",
        "device": "android"
      }
    ]
  }
}`

const offer2Payload = `{
  "status": "success",
  "data": {
    "77": {
      "Offer": {
        "campaign_id": 77,
        "name": "Survey Sprint",
        "description": "Answer five questions",
        "instructions": "Complete the survey",
        "icon": "https://cdn.offer2.example/77.png",
        "tracking_url": "https://track.offer2.example/77"
      },
      "OS": {"web": true, "ios": false, "android": true}
    },
    "12": {
      "Offer": {
        "campaign_id": "12",
        "name": "Mobile Quest",
        "description": "",
        "instructions": "Install and register",
        "icon": "https://cdn.offer2.example/12.png",
        "tracking_url": "https://track.offer2.example/12"
      },
      "OS": {"web": false, "ios": true, "android": false}
    }
  }
}`

func TestOffer1Adapter_Transform(t *testing.T) {
	offers, err := Offer1Adapter{}.Transform([]byte(offer1Payload))
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("Expected 2 offers, got %d", len(offers))
	}

	first := offers[0]
	want := models.Offer{
		Name:             "Free $5 Gift!",
		Slug:             "free-5-gift-offer1-1001",
		Description:      "Install and open the app",
		Requirements:     "Open the app within 7 days",
		Thumbnail:        "https://cdn.offer1.example/1001.png",
		OfferURLTemplate: "https://track.offer1.example/1001?sub={user_id}",
		Platforms:        models.PlatformFlags{SupportsDesktop: true, SupportsIOS: true, SupportsAndroid: false},
		ProviderName:     "offer1",
		ExternalOfferID:  "1001",
	}
	if first != want {
		t.Errorf("First offer mismatch:\n got  %+v\n want %+v", first, want)
	}

	second := offers[1]
	if second.ExternalOfferID != "98765432109876543" {
		t.Errorf("Numeric ID should keep its literal text, got %q", second.ExternalOfferID)
	}
	if second.Platforms != (models.PlatformFlags{SupportsAndroid: true}) {
		t.Errorf("Unexpected platforms for android/mobile offer: %+v", second.Platforms)
	}
	if second.ID != 0 {
		t.Errorf("Adapter must not assign ID, got %d", second.ID)
	}
}

func TestOffer1Platforms(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		device   string
		want     models.PlatformFlags
	}{
		{"iOS desktop", "desktop", "iphone_ipad", models.PlatformFlags{SupportsDesktop: true, SupportsIOS: true}},
		{"iOS mobile", "mobile", "iphone_ipad", models.PlatformFlags{SupportsIOS: true}},
		{"Android desktop", "desktop", "android", models.PlatformFlags{SupportsDesktop: true, SupportsAndroid: true}},
		{"Unknown device falls back to Android", "", "", models.PlatformFlags{SupportsAndroid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := offer1Platforms(tt.platform, tt.device); got != tt.want {
				t.Errorf("offer1Platforms(%q, %q) = %+v, want %+v", tt.platform, tt.device, got, tt.want)
			}
		})
	}
}

func TestOffer2Adapter_Transform(t *testing.T) {
	offers, err := Offer2Adapter{}.Transform([]byte(offer2Payload))
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if len(offers) != 2 {
		t.Fatalf("Expected 2 offers, got %d", len(offers))
	}

	// Payload order, not key order.
	if offers[0].ExternalOfferID != "77" || offers[1].ExternalOfferID != "12" {
		t.Errorf("Expected payload order [77 12], got [%s %s]", offers[0].ExternalOfferID, offers[1].ExternalOfferID)
	}

	first := offers[0]
	want := models.Offer{
		Name:             "Survey Sprint",
		Slug:             "survey-sprint-offer2-77",
		Description:      "Answer five questions",
		Requirements:     "Complete the survey",
		Thumbnail:        "https://cdn.offer2.example/77.png",
		OfferURLTemplate: "https://track.offer2.example/77",
		Platforms:        models.PlatformFlags{SupportsDesktop: true, SupportsIOS: false, SupportsAndroid: true},
		ProviderName:     "offer2",
		ExternalOfferID:  "77",
	}
	if first != want {
		t.Errorf("First offer mismatch:\n got  %+v\n want %+v", first, want)
	}

	if offers[1].Platforms != (models.PlatformFlags{SupportsIOS: true}) {
		t.Errorf("Unexpected platforms for iOS-only offer: %+v", offers[1].Platforms)
	}
}

func TestOffer2Adapter_ArrayData(t *testing.T) {
	payload := `{"data": [{"Offer": {"campaign_id": 5, "name": "A"}, "OS": {"web": 1, "ios": "true", "android": false}}]}`

	offers, err := Offer2Adapter{}.Transform([]byte(payload))
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("Expected 1 offer, got %d", len(offers))
	}
	if offers[0].Platforms != (models.PlatformFlags{SupportsDesktop: true, SupportsIOS: true}) {
		t.Errorf("Unexpected platforms: %+v", offers[0].Platforms)
	}
}

func TestTransform_EmptyCatalog(t *testing.T) {
	tests := []struct {
		name    string
		adapter Adapter
		payload string
	}{
		{"offer1 empty offers", Offer1Adapter{}, `{"response": {"offers": []}}`},
		{"offer2 empty data", Offer2Adapter{}, `{"data": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offers, err := tt.adapter.Transform([]byte(tt.payload))
			if err != nil {
				t.Fatalf("Transform() error = %v", err)
			}
			if len(offers) != 0 {
				t.Errorf("Expected no offers, got %d", len(offers))
			}
		})
	}
}

func TestTransform_Malformed(t *testing.T) {
	tests := []struct {
		name      string
		adapter   Adapter
		payload   string
		wantField string
	}{
		{"offer1 not JSON", Offer1Adapter{}, `<html>`, "$"},
		{"offer1 top-level array", Offer1Adapter{}, `[]`, "$"},
		{"offer1 missing response", Offer1Adapter{}, `{"offers": []}`, "response"},
		{"offer1 offers not array", Offer1Adapter{}, `{"response": {"offers": {}}}`, "response.offers"},
		{"offer1 entry not object", Offer1Adapter{}, `{"response": {"offers": [{"offer_id": 1}, 7]}}`, "response.offers[1]"},
		{"offer1 missing offer_id", Offer1Adapter{}, `{"response": {"offers": [{"offer_name": "x"}]}}`, "response.offers[0].offer_id"},
		{"offer1 null offer_id", Offer1Adapter{}, `{"response": {"offers": [{"offer_id": null}]}}`, "response.offers[0].offer_id"},
		{"offer1 object offer_id", Offer1Adapter{}, `{"response": {"offers": [{"offer_id": {"v": 1}}]}}`, "response.offers[0].offer_id"},
		{"offer2 missing data", Offer2Adapter{}, `{"status": "ok"}`, "data"},
		{"offer2 missing Offer", Offer2Adapter{}, `{"data": {"9": {"OS": {}}}}`, "data.9.Offer"},
		{"offer2 missing OS", Offer2Adapter{}, `{"data": {"9": {"Offer": {"campaign_id": 9}}}}`, "data.9.OS"},
		{"offer2 missing campaign_id", Offer2Adapter{}, `{"data": [{"Offer": {}, "OS": {}}]}`, "data[0].Offer.campaign_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offers, err := tt.adapter.Transform([]byte(tt.payload))
			if err == nil {
				t.Fatalf("Expected error, got %d offers", len(offers))
			}
			if offers != nil {
				t.Errorf("Expected no partial offers, got %d", len(offers))
			}

			var mpe *MalformedPayloadError
			if !errors.As(err, &mpe) {
				t.Fatalf("Expected *MalformedPayloadError, got %T: %v", err, err)
			}
			if mpe.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", mpe.Field, tt.wantField)
			}
			if mpe.Provider != tt.adapter.ProviderName() {
				t.Errorf("Provider = %q, want %q", mpe.Provider, tt.adapter.ProviderName())
			}
		})
	}
}

func TestTransform_ProviderNameNotFromPayload(t *testing.T) {
	payload := `{"response": {"offers": [{"offer_id": 1, "offer_name": "X", "provider": "evil", "providerName": "evil"}]}}`
	offers, err := Offer1Adapter{}.Transform([]byte(payload))
	if err != nil {
		t.Fatal(err)
	}
	if offers[0].ProviderName != "offer1" {
		t.Errorf("ProviderName = %q, want offer1", offers[0].ProviderName)
	}
}
