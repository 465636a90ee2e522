package importer

import "github.com/annuaire-qc/directory/internal/places"

// MaxDraftPhotos is the number of provider photos kept on a draft.
const MaxDraftPhotos = 10

// Draft is a business listing built from a Google place, ready for review
// by a person before it is saved.
type Draft struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	Website     string   `json:"website"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Province    string   `json:"province"`
	PostalCode  string   `json:"postal_code"`
	Country     string   `json:"country"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`

	ExternalPlaceID string `json:"external_place_id"`
	ExternalMapsURL string `json:"external_maps_url"`

	RatingAverage  float64 `json:"rating_average"`
	RatingCount    int     `json:"rating_count"`
	BusinessStatus string  `json:"business_status"`

	SuggestedCategorySlug *string `json:"suggested_category_slug"`

	Reviews          []Review    `json:"reviews"`
	SocialLinks      SocialLinks `json:"social_links"`
	OpeningHoursText []string    `json:"opening_hours_text"`
	Photos           []Photo     `json:"photos"`

	Icon                string `json:"icon"`
	IconBackgroundColor string `json:"icon_background_color"`

	RestaurantAttributes *RestaurantAttributes        `json:"restaurant_attributes,omitempty"`
	ParkingOptions       *places.ParkingOptions       `json:"parking_options,omitempty"`
	PaymentOptions       *places.PaymentOptions       `json:"payment_options,omitempty"`
	AccessibilityOptions *places.AccessibilityOptions `json:"accessibility_options,omitempty"`
	EVChargeOptions      *places.EVChargeOptions      `json:"ev_charge_options,omitempty"`
	FuelOptions          *places.FuelOptions          `json:"fuel_options,omitempty"`
}

type Review struct {
	AuthorName              string `json:"author_name"`
	Rating                  int    `json:"rating"`
	Text                    string `json:"text"`
	Time                    int64  `json:"time"`
	RelativeTimeDescription string `json:"relative_time_description"`
	ProfilePhotoURL         string `json:"profile_photo_url"`
}

type Photo struct {
	Identifier   string   `json:"identifier"`
	Reference    string   `json:"reference"`
	WidthPx      int      `json:"width_px"`
	HeightPx     int      `json:"height_px"`
	Attributions []string `json:"attributions"`
}

// RestaurantAttributes groups the food service flags. Nil flags are unknown.
type RestaurantAttributes struct {
	DineIn               *bool `json:"dine_in,omitempty"`
	Takeout              *bool `json:"takeout,omitempty"`
	Delivery             *bool `json:"delivery,omitempty"`
	Reservable           *bool `json:"reservable,omitempty"`
	CurbsidePickup       *bool `json:"curbside_pickup,omitempty"`
	ServesBreakfast      *bool `json:"serves_breakfast,omitempty"`
	ServesLunch          *bool `json:"serves_lunch,omitempty"`
	ServesDinner         *bool `json:"serves_dinner,omitempty"`
	ServesBeer           *bool `json:"serves_beer,omitempty"`
	ServesWine           *bool `json:"serves_wine,omitempty"`
	ServesVegetarianFood *bool `json:"serves_vegetarian_food,omitempty"`
}
