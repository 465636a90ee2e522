package places

// Place is a Google Places record as returned by the details and text search
// endpoints. Optional provider attributes are pointers so that an absent field
// stays distinguishable from an explicit false or zero.
type Place struct {
	PlaceID                  string             `json:"place_id"`
	Name                     string             `json:"name,omitempty"`
	FormattedPhoneNumber     string             `json:"formatted_phone_number,omitempty"`
	InternationalPhoneNumber string             `json:"international_phone_number,omitempty"`
	Website                  string             `json:"website,omitempty"`
	URL                      string             `json:"url,omitempty"`
	FormattedAddress         string             `json:"formatted_address,omitempty"`
	AddressComponents        []AddressComponent `json:"address_components,omitempty"`
	Geometry                 *Geometry          `json:"geometry,omitempty"`
	Types                    []string           `json:"types,omitempty"`
	EditorialSummary         *EditorialSummary  `json:"editorial_summary,omitempty"`
	BusinessDescription      string             `json:"business_description,omitempty"`
	Reviews                  []Review           `json:"reviews,omitempty"`
	Photos                   []Photo            `json:"photos,omitempty"`
	OpeningHours             *OpeningHours      `json:"opening_hours,omitempty"`
	Rating                   *float64           `json:"rating,omitempty"`
	UserRatingsTotal         *int               `json:"user_ratings_total,omitempty"`
	BusinessStatus           string             `json:"business_status,omitempty"`
	Icon                     string             `json:"icon,omitempty"`
	IconBackgroundColor      string             `json:"icon_background_color,omitempty"`

	// Only returned for some API tiers.
	DineIn                       *bool `json:"dine_in,omitempty"`
	Takeout                      *bool `json:"takeout,omitempty"`
	Delivery                     *bool `json:"delivery,omitempty"`
	Reservable                   *bool `json:"reservable,omitempty"`
	CurbsidePickup               *bool `json:"curbside_pickup,omitempty"`
	ServesBreakfast              *bool `json:"serves_breakfast,omitempty"`
	ServesLunch                  *bool `json:"serves_lunch,omitempty"`
	ServesDinner                 *bool `json:"serves_dinner,omitempty"`
	ServesBeer                   *bool `json:"serves_beer,omitempty"`
	ServesWine                   *bool `json:"serves_wine,omitempty"`
	ServesVegetarianFood         *bool `json:"serves_vegetarian_food,omitempty"`
	WheelchairAccessibleEntrance *bool `json:"wheelchair_accessible_entrance,omitempty"`

	ParkingOptions       *ParkingOptions       `json:"parking_options,omitempty"`
	PaymentOptions       *PaymentOptions       `json:"payment_options,omitempty"`
	AccessibilityOptions *AccessibilityOptions `json:"accessibility_options,omitempty"`
	EVChargeOptions      *EVChargeOptions      `json:"ev_charge_options,omitempty"`
	FuelOptions          *FuelOptions          `json:"fuel_options,omitempty"`
}

type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type Geometry struct {
	Location Location `json:"location"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type EditorialSummary struct {
	Overview string `json:"overview,omitempty"`
	Language string `json:"language,omitempty"`
}

type Review struct {
	AuthorName              string `json:"author_name"`
	Rating                  int    `json:"rating"`
	Text                    string `json:"text,omitempty"`
	Time                    int64  `json:"time"`
	RelativeTimeDescription string `json:"relative_time_description,omitempty"`
	ProfilePhotoURL         string `json:"profile_photo_url,omitempty"`
}

type Photo struct {
	PhotoReference   string   `json:"photo_reference"`
	Width            int      `json:"width"`
	Height           int      `json:"height"`
	HTMLAttributions []string `json:"html_attributions,omitempty"`
}

type OpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

type ParkingOptions struct {
	FreeParkingLot    *bool `json:"free_parking_lot,omitempty"`
	PaidParkingLot    *bool `json:"paid_parking_lot,omitempty"`
	FreeStreetParking *bool `json:"free_street_parking,omitempty"`
	PaidStreetParking *bool `json:"paid_street_parking,omitempty"`
	ValetParking      *bool `json:"valet_parking,omitempty"`
	FreeGarageParking *bool `json:"free_garage_parking,omitempty"`
	PaidGarageParking *bool `json:"paid_garage_parking,omitempty"`
}

type PaymentOptions struct {
	AcceptsCreditCards *bool `json:"accepts_credit_cards,omitempty"`
	AcceptsDebitCards  *bool `json:"accepts_debit_cards,omitempty"`
	AcceptsCashOnly    *bool `json:"accepts_cash_only,omitempty"`
	AcceptsNFC         *bool `json:"accepts_nfc,omitempty"`
}

type AccessibilityOptions struct {
	WheelchairAccessibleParking  *bool `json:"wheelchair_accessible_parking,omitempty"`
	WheelchairAccessibleEntrance *bool `json:"wheelchair_accessible_entrance,omitempty"`
	WheelchairAccessibleRestroom *bool `json:"wheelchair_accessible_restroom,omitempty"`
	WheelchairAccessibleSeating  *bool `json:"wheelchair_accessible_seating,omitempty"`
}

type EVChargeOptions struct {
	ConnectorCount       *int                   `json:"connector_count,omitempty"`
	ConnectorAggregation []ConnectorAggregation `json:"connector_aggregation,omitempty"`
}

type ConnectorAggregation struct {
	Type            string  `json:"type"`
	MaxChargeRateKW float64 `json:"max_charge_rate_kw,omitempty"`
	Count           int     `json:"count,omitempty"`
}

type FuelOptions struct {
	FuelPrices []FuelPrice `json:"fuel_prices,omitempty"`
}

type FuelPrice struct {
	Type       string `json:"type"`
	Price      string `json:"price,omitempty"`
	UpdateTime string `json:"update_time,omitempty"`
}

// Google Places API response envelopes (internal)

type detailsResponse struct {
	Result       *Place `json:"result"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type searchResponse struct {
	Results      []Place `json:"results"`
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message,omitempty"`
}
