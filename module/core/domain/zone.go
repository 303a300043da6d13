package domain

import "time"

type ZoneKind string

const (
	ZoneToll   ZoneKind = "toll"
	ZoneDanger ZoneKind = "danger"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Zone is a named polygon with a behavior attached through Policy.
// Boundary is implicitly closed: the last vertex connects back to the first.
type Zone struct {
	ID          string
	Name        string
	Description string
	Boundary    []Coordinate
	Active      bool
	Policy      ZonePolicy
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (z *Zone) Kind() ZoneKind {
	if z.Policy == nil {
		return ""
	}
	return z.Policy.Kind()
}

// ZonePolicy is implemented by TollPolicy and DangerPolicy only.
type ZonePolicy interface {
	Kind() ZoneKind
	zonePolicy()
}

type TollPolicy struct {
	Amount Money
}

func (TollPolicy) Kind() ZoneKind { return ZoneToll }
func (TollPolicy) zonePolicy()    {}

type DangerPolicy struct {
	Severity     Severity
	AlertMessage string
	SpeedLimit   *float64
}

func (DangerPolicy) Kind() ZoneKind { return ZoneDanger }
func (DangerPolicy) zonePolicy()    {}

// ZoneInput is the unvalidated shape accepted when registering a zone.
type ZoneInput struct {
	Name         string
	Kind         ZoneKind
	Description  string
	Boundary     []Coordinate
	TollAmount   Money
	Severity     Severity
	AlertMessage string
	SpeedLimit   *float64
}
