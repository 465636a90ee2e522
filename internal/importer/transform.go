package importer

import (
	"net/url"
	"strings"

	"github.com/annuaire-qc/directory/internal/places"
)

const mapsPlaceURL = "https://www.google.com/maps/place/?q=place_id:"

// Transformer converts places into drafts using a category table.
type Transformer struct {
	categories *CategoryTable
}

// NewTransformer creates a transformer. A nil table falls back to the
// built-in rules.
func NewTransformer(categories *CategoryTable) *Transformer {
	if categories == nil {
		categories = DefaultCategories()
	}
	return &Transformer{categories: categories}
}

// Transform converts a place with the built-in category table.
func Transform(place *places.Place) *Draft {
	return NewTransformer(nil).Transform(place)
}

// Transform builds a draft from a place. Every optional provider field has a
// default, so partial records never fail. The input is not modified and the
// draft shares no mutable state with it.
func (t *Transformer) Transform(place *places.Place) *Draft {
	if place == nil {
		place = &places.Place{}
	}

	addr := ParseAddress(place.AddressComponents)

	draft := &Draft{
		Name:                place.Name,
		Description:         description(place),
		Phone:               firstNonEmpty(place.FormattedPhoneNumber, place.InternationalPhoneNumber),
		Website:             place.Website,
		Address:             addr.Street(),
		City:                addr.City,
		Province:            addr.Province,
		PostalCode:          addr.PostalCode,
		Country:             addr.Country,
		ExternalPlaceID:     place.PlaceID,
		ExternalMapsURL:     mapsURL(place),
		BusinessStatus:      place.BusinessStatus,
		Reviews:             reviews(place.Reviews),
		SocialLinks:         ExtractSocialLinks(place),
		OpeningHoursText:    []string{},
		Photos:              photos(place.Photos),
		Icon:                place.Icon,
		IconBackgroundColor: place.IconBackgroundColor,
	}

	if place.Geometry != nil {
		lat, lng := place.Geometry.Location.Lat, place.Geometry.Location.Lng
		draft.Latitude = &lat
		draft.Longitude = &lng
	}
	if place.Rating != nil {
		draft.RatingAverage = *place.Rating
	}
	if place.UserRatingsTotal != nil {
		draft.RatingCount = *place.UserRatingsTotal
	}
	if slug, ok := t.categories.Map(place.Types); ok {
		draft.SuggestedCategorySlug = &slug
	}
	if place.OpeningHours != nil && len(place.OpeningHours.WeekdayText) > 0 {
		draft.OpeningHoursText = append([]string{}, place.OpeningHours.WeekdayText...)
	}

	// Groups are keyed on presence of their source field, not its value.
	if place.DineIn != nil {
		draft.RestaurantAttributes = &RestaurantAttributes{
			DineIn:               clonePtr(place.DineIn),
			Takeout:              clonePtr(place.Takeout),
			Delivery:             clonePtr(place.Delivery),
			Reservable:           clonePtr(place.Reservable),
			CurbsidePickup:       clonePtr(place.CurbsidePickup),
			ServesBreakfast:      clonePtr(place.ServesBreakfast),
			ServesLunch:          clonePtr(place.ServesLunch),
			ServesDinner:         clonePtr(place.ServesDinner),
			ServesBeer:           clonePtr(place.ServesBeer),
			ServesWine:           clonePtr(place.ServesWine),
			ServesVegetarianFood: clonePtr(place.ServesVegetarianFood),
		}
	}
	draft.ParkingOptions = cloneParking(place.ParkingOptions)
	draft.PaymentOptions = clonePayment(place.PaymentOptions)
	draft.AccessibilityOptions = accessibility(place)
	draft.EVChargeOptions = cloneEVCharge(place.EVChargeOptions)
	draft.FuelOptions = cloneFuel(place.FuelOptions)

	return draft
}

// description never falls back to reviews; those are returned separately.
func description(place *places.Place) string {
	if place.EditorialSummary != nil && place.EditorialSummary.Overview != "" {
		return place.EditorialSummary.Overview
	}
	return place.BusinessDescription
}

func mapsURL(place *places.Place) string {
	if place.URL != "" {
		return place.URL
	}
	if place.PlaceID == "" {
		return ""
	}
	return mapsPlaceURL + url.QueryEscape(place.PlaceID)
}

func reviews(src []places.Review) []Review {
	out := make([]Review, 0, len(src))
	for _, r := range src {
		out = append(out, Review{
			AuthorName:              r.AuthorName,
			Rating:                  r.Rating,
			Text:                    r.Text,
			Time:                    r.Time,
			RelativeTimeDescription: r.RelativeTimeDescription,
			ProfilePhotoURL:         r.ProfilePhotoURL,
		})
	}
	return out
}

func photos(src []places.Photo) []Photo {
	if len(src) > MaxDraftPhotos {
		src = src[:MaxDraftPhotos]
	}
	out := make([]Photo, 0, len(src))
	for _, p := range src {
		out = append(out, Photo{
			Identifier:   p.PhotoReference,
			Reference:    p.PhotoReference,
			WidthPx:      p.Width,
			HeightPx:     p.Height,
			Attributions: append([]string{}, p.HTMLAttributions...),
		})
	}
	return out
}

// accessibility merges the top-level wheelchair entrance flag into the
// accessibility group. The top-level flag wins when both are set.
func accessibility(place *places.Place) *places.AccessibilityOptions {
	if place.AccessibilityOptions == nil && place.WheelchairAccessibleEntrance == nil {
		return nil
	}
	out := &places.AccessibilityOptions{}
	if src := place.AccessibilityOptions; src != nil {
		out.WheelchairAccessibleParking = clonePtr(src.WheelchairAccessibleParking)
		out.WheelchairAccessibleEntrance = clonePtr(src.WheelchairAccessibleEntrance)
		out.WheelchairAccessibleRestroom = clonePtr(src.WheelchairAccessibleRestroom)
		out.WheelchairAccessibleSeating = clonePtr(src.WheelchairAccessibleSeating)
	}
	if place.WheelchairAccessibleEntrance != nil {
		out.WheelchairAccessibleEntrance = clonePtr(place.WheelchairAccessibleEntrance)
	}
	return out
}

func cloneParking(src *places.ParkingOptions) *places.ParkingOptions {
	if src == nil {
		return nil
	}
	return &places.ParkingOptions{
		FreeParkingLot:    clonePtr(src.FreeParkingLot),
		PaidParkingLot:    clonePtr(src.PaidParkingLot),
		FreeStreetParking: clonePtr(src.FreeStreetParking),
		PaidStreetParking: clonePtr(src.PaidStreetParking),
		ValetParking:      clonePtr(src.ValetParking),
		FreeGarageParking: clonePtr(src.FreeGarageParking),
		PaidGarageParking: clonePtr(src.PaidGarageParking),
	}
}

func clonePayment(src *places.PaymentOptions) *places.PaymentOptions {
	if src == nil {
		return nil
	}
	return &places.PaymentOptions{
		AcceptsCreditCards: clonePtr(src.AcceptsCreditCards),
		AcceptsDebitCards:  clonePtr(src.AcceptsDebitCards),
		AcceptsCashOnly:    clonePtr(src.AcceptsCashOnly),
		AcceptsNFC:         clonePtr(src.AcceptsNFC),
	}
}

func cloneEVCharge(src *places.EVChargeOptions) *places.EVChargeOptions {
	if src == nil {
		return nil
	}
	out := &places.EVChargeOptions{ConnectorCount: clonePtr(src.ConnectorCount)}
	if src.ConnectorAggregation != nil {
		out.ConnectorAggregation = append([]places.ConnectorAggregation{}, src.ConnectorAggregation...)
	}
	return out
}

func cloneFuel(src *places.FuelOptions) *places.FuelOptions {
	if src == nil {
		return nil
	}
	out := &places.FuelOptions{}
	if src.FuelPrices != nil {
		out.FuelPrices = append([]places.FuelPrice{}, src.FuelPrices...)
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
