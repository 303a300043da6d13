package domain

import "time"

type VehicleSummary struct {
	ID             string     `json:"id"`
	RegistrationNo string     `json:"registrationNo"`
	Location       Coordinate `json:"location"`
}

// TriggeredZone names a zone the vehicle is inside. Error is set when that
// zone's side effects could not be fully applied.
type TriggeredZone struct {
	ZoneID string   `json:"zoneID"`
	Name   string   `json:"name"`
	Type   ZoneKind `json:"type"`
	Error  string   `json:"error,omitempty"`
}

// Alert is either a toll alert (Amount, Status, Balance) or a danger alert
// (Severity, SpeedLimit, DistanceMeters, Speeding), discriminated by Type.
type Alert struct {
	Type    ZoneKind `json:"type"`
	Zone    string   `json:"zone"`
	Message string   `json:"message"`

	Amount  *Money  `json:"amount,omitempty"`
	Status  Outcome `json:"status,omitempty"`
	Balance *Money  `json:"balance,omitempty"`

	Severity       Severity `json:"severity,omitempty"`
	SpeedLimit     *float64 `json:"speedLimit,omitempty"`
	DistanceMeters *float64 `json:"distanceMeters,omitempty"`
	Speeding       bool     `json:"speeding,omitempty"`
}

type TrackingResult struct {
	Vehicle        VehicleSummary  `json:"vehicle"`
	TriggeredZones []TriggeredZone `json:"triggeredZones"`
	Alerts         []Alert         `json:"alerts"`
}

const ZoneAlertsEvent = "zone_alerts"

// ZoneAlertEvent is fanned out to downstream listeners after an update
// produced at least one alert.
type ZoneAlertEvent struct {
	Event          string     `json:"event"`
	VehicleID      string     `json:"vehicle_id"`
	RegistrationNo string     `json:"registration_no"`
	Location       Coordinate `json:"location"`
	Alerts         []Alert    `json:"alerts"`
	Timestamp      int64      `json:"timestamp"`
}

func NewZoneAlertEvent(res *TrackingResult, at time.Time) *ZoneAlertEvent {
	return &ZoneAlertEvent{
		Event:          ZoneAlertsEvent,
		VehicleID:      res.Vehicle.ID,
		RegistrationNo: res.Vehicle.RegistrationNo,
		Location:       res.Vehicle.Location,
		Alerts:         res.Alerts,
		Timestamp:      at.Unix(),
	}
}
