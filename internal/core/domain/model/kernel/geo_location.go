package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"

	"dispatch/internal/pkg/guard"
)

const (
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax = 180.0

	// earthRadiusKm is the mean Earth radius used for haversine distance.
	earthRadiusKm = 6371.0
)

// ErrGeoLocationIsNotConstructed is returned when attempting to use an
// improperly initialized GeoLocation. GeoLocations must be created using the
// NewGeoLocation constructor to ensure validity.
var ErrGeoLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"geo location must be created via NewGeoLocation constructor")

// GeoLocation represents a geographic point with validated coordinates.
// It is an immutable value object: latitude must lie within [-90, 90] and
// longitude within [-180, 180]. The zero value is invalid and fails
// validation - use the constructor to create instances.
//
// Example:
//
//	loc, err := kernel.NewGeoLocation(28.40, 77.00)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(loc) // Output: GeoLocation(28.400000,77.000000)
type GeoLocation struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoLocation creates a new GeoLocation with the specified coordinates.
// Returns an error if either coordinate is outside its valid range.
func NewGeoLocation(latitude float64, longitude float64) (GeoLocation, error) {
	loc := GeoLocation{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLatitude(latitude), loc.setLongitude(longitude)); err != nil {
		return GeoLocation{}, err
	}

	return loc, nil
}

// Validate checks if the GeoLocation was properly constructed.
// The zero value of GeoLocation is invalid and fails this validation.
func (l GeoLocation) Validate() error {
	return l.guard.Validate(ErrGeoLocationIsNotConstructed)
}

// Latitude returns the latitude in degrees.
func (l GeoLocation) Latitude() float64 {
	return l.latitude
}

// Longitude returns the longitude in degrees.
func (l GeoLocation) Longitude() float64 {
	return l.longitude
}

// String returns a human-readable representation of the GeoLocation.
// This method implements the fmt.Stringer interface.
func (l GeoLocation) String() string {
	return fmt.Sprintf("GeoLocation(%f,%f)", l.latitude, l.longitude)
}

// IsEqual compares two geo locations for equality.
// Both locations must be properly constructed for the comparison to succeed.
func (l GeoLocation) IsEqual(other GeoLocation) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l.latitude == other.latitude && l.longitude == other.longitude, nil
}

// DistanceKmTo calculates the great-circle distance in kilometers between
// two geographic points using the haversine formula on a sphere of Earth's
// mean radius (6371 km):
//
//	a = sin²(Δlat/2) + cos(lat1)·cos(lat2)·sin²(Δlng/2)
//	distance = 2R·atan2(√a, √(1−a))
//
// Both locations must be properly constructed for the calculation to succeed.
func (l GeoLocation) DistanceKmTo(other GeoLocation) (float64, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := toRadians(l.latitude)
	lat2 := toRadians(other.latitude)
	deltaLat := toRadians(other.latitude - l.latitude)
	deltaLng := toRadians(other.longitude - l.longitude)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c, nil
}

// setLatitude sets the latitude with validation.
// Note: We intentionally use a pointer receiver here while other methods use
// value receivers, to enable self-encapsulated validation during construction.
func (l *GeoLocation) setLatitude(latitude float64) error {
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}

	l.latitude = latitude
	return nil
}

// setLongitude sets the longitude with validation.
func (l *GeoLocation) setLongitude(longitude float64) error {
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	l.longitude = longitude
	return nil
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
