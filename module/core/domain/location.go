package domain

import (
	"fmt"
	"math"
	"time"
)

// Coordinate is a WGS84 point in degrees.
type Coordinate struct {
	Lon float64 `json:"longitude"`
	Lat float64 `json:"latitude"`
}

type Vehicle struct {
	ID             string     `json:"id"`
	DeviceID       string     `json:"deviceID"`
	RegistrationNo string     `json:"registrationNo"`
	VehicleType    string     `json:"vehicleType"`
	AccountID      string     `json:"accountID"`
	Location       Coordinate `json:"location"`
	LastUpdated    time.Time  `json:"lastUpdated"`
}

// LocationUpdate is a single position report from a device.
type LocationUpdate struct {
	DeviceID  string
	Longitude float64
	Latitude  float64
	Speed     *float64
}

func (u *LocationUpdate) Coordinate() Coordinate {
	return Coordinate{Lon: u.Longitude, Lat: u.Latitude}
}

// Validate checks the update before any store is touched.
func (u *LocationUpdate) Validate() error {
	if u.DeviceID == "" {
		return Validation("deviceID: required")
	}
	if math.IsNaN(u.Longitude) || u.Longitude < -180 || u.Longitude > 180 {
		return Validation(fmt.Sprintf("longitude: must be between -180 and 180, got %v", u.Longitude))
	}
	if math.IsNaN(u.Latitude) || u.Latitude < -90 || u.Latitude > 90 {
		return Validation(fmt.Sprintf("latitude: must be between -90 and 90, got %v", u.Latitude))
	}
	if u.Speed != nil && (math.IsNaN(*u.Speed) || math.IsInf(*u.Speed, 0) || *u.Speed < 0) {
		return Validation("speed: must be a non-negative number")
	}
	return nil
}
