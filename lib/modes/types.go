// Package modes decodes Mode-S downlink replies and the ADS-B Extended
// Squitter payloads they carry. It treats the Mode-S CRC as opaque: no
// error correction, no deduplication, no track state. Every malformed or
// reserved field collapses to an Unsupported variant rather than failing
// the whole decode — see Data and ADSBMessage.
package modes

import "fmt"

// Data is the decoded payload of a Mode-S downlink reply. Each concrete
// type is the payload of exactly one Downlink Format (or the catch-all
// Unsupported); they share no fields worth abstracting, so Data is a
// closed interface rather than a common base struct.
type Data interface {
	isData()
}

// ACASSurveillanceReply is the DF-0 payload.
type ACASSurveillanceReply struct {
	VerticalStatus    VerticalStatus
	CrossLink         CrossLink
	SensitivityLevel  SensitivityLevel
	ReplyInformation  ReplyInformation
	Altitude          Altitude
}

func (ACASSurveillanceReply) isData() {}

// AltitudeReply is the DF-4 payload.
type AltitudeReply struct {
	FlightStatus      FlightStatus
	DownlinkRequest   uint8
	UtilityMessage    uint8
	Altitude          Altitude
}

func (AltitudeReply) isData() {}

// SurveillanceReply is the DF-5 payload.
type SurveillanceReply struct {
	FlightStatus    FlightStatus
	DownlinkRequest uint8
	UtilityMessage  uint8
	Identity        uint16 // 4-digit octal squawk, decimal-encoded (0..7777)
}

func (SurveillanceReply) isData() {}

// AllCallReply is the DF-11 payload.
type AllCallReply struct {
	Capability uint8
	ICAO       ICAO
	Parity     uint32 // 24 opaque bits
}

func (AllCallReply) isData() {}

// ACASCoordinationReply is the DF-16 payload. The 56-bit MV field is kept
// in full (not truncated to the low 24 bits some decoders retain) per
// spec: implementers should retain the full value and let consumers
// interpret it.
type ACASCoordinationReply struct {
	VerticalStatus   VerticalStatus
	SensitivityLevel SensitivityLevel
	ReplyInformation ReplyInformation
	Altitude         Altitude
	MV               [7]byte
}

func (ACASCoordinationReply) isData() {}

// ExtendedSquitter is the DF-17 payload.
type ExtendedSquitter struct {
	Capability uint8
	ICAO       ICAO
	Message    ADSBMessage
}

func (ExtendedSquitter) isData() {}

// Unsupported is emitted for any Downlink Format outside the supported
// set, or when a sub-decoder hits a reserved/malformed field it cannot
// render as a typed variant. raw is the original Mode-S payload.
type Unsupported struct {
	Raw []byte
}

func (Unsupported) isData() {}

// ICAO is a 24-bit ICAO aircraft address, always rendered as six
// uppercase hex characters.
type ICAO uint32

func (i ICAO) String() string {
	return fmt.Sprintf("%06X", uint32(i)&0xFFFFFF)
}

// ADSBMessage is the decoded ME field of a DF-17 Extended Squitter,
// keyed by its 5-bit ADS-B Type Code.
type ADSBMessage interface {
	isADSBMessage()
}

// AircraftCategory is the TC/category matrix result for TC 1..4.
type AircraftCategory uint8

const (
	CategoryNone AircraftCategory = iota
	CategorySurfaceEmergencyVehicle
	CategorySurfaceServiceVehicle
	CategoryGroundObstruction
	CategoryGlider
	CategoryLighterThanAir
	CategoryParachutist
	CategoryUltralight
	CategoryUnmannedAerialVehicle
	CategorySpaceVehicle
	CategoryLight
	CategoryMedium1
	CategoryMedium2
	CategoryHighVortexAircraft
	CategoryHeavy
	CategoryHighPerformance
	CategoryRotorcraft
)

func (c AircraftCategory) String() string {
	switch c {
	case CategoryNone:
		return "None"
	case CategorySurfaceEmergencyVehicle:
		return "SurfaceEmergencyVehicle"
	case CategorySurfaceServiceVehicle:
		return "SurfaceServiceVehicle"
	case CategoryGroundObstruction:
		return "GroundObstruction"
	case CategoryGlider:
		return "Glider"
	case CategoryLighterThanAir:
		return "LighterThanAir"
	case CategoryParachutist:
		return "Parachutist"
	case CategoryUltralight:
		return "Ultralight"
	case CategoryUnmannedAerialVehicle:
		return "UnmannedAerialVehicle"
	case CategorySpaceVehicle:
		return "SpaceVehicle"
	case CategoryLight:
		return "Light"
	case CategoryMedium1:
		return "Medium1"
	case CategoryMedium2:
		return "Medium2"
	case CategoryHighVortexAircraft:
		return "HighVortexAircraft"
	case CategoryHeavy:
		return "Heavy"
	case CategoryHighPerformance:
		return "HighPerformance"
	case CategoryRotorcraft:
		return "Rotorcraft"
	default:
		return "Unknown"
	}
}

// AircraftIdentification is the TC 1..4 ADS-B message.
type AircraftIdentification struct {
	Category AircraftCategory
	CallSign string // exactly 8 chars, [A-Z ' ' 0-9]
}

func (AircraftIdentification) isADSBMessage() {}

// CPRFormat distinguishes the Even/Odd CPR encoding word.
type CPRFormat uint8

const (
	CPREven CPRFormat = iota
	CPROdd
)

func (f CPRFormat) String() string {
	if f == CPROdd {
		return "Odd"
	}
	return "Even"
}

// SurveillanceStatus is the 2-bit SS field of an airborne position message.
type SurveillanceStatus uint8

const (
	SurveillanceNoCondition SurveillanceStatus = iota
	SurveillancePermanentAlert
	SurveillanceTemporaryAlert
	SurveillanceSPICondition
)

func (s SurveillanceStatus) String() string {
	switch s {
	case SurveillanceNoCondition:
		return "NoCondition"
	case SurveillancePermanentAlert:
		return "PermanentAlert"
	case SurveillanceTemporaryAlert:
		return "TemporaryAlert"
	case SurveillanceSPICondition:
		return "SPICondition"
	default:
		return "Unknown"
	}
}

// AirbornePosition is the TC 9..18,20..22 ADS-B message. CPR latitude and
// longitude are kept raw: resolving them into a lat/lon pair requires a
// reference position or a paired Even/Odd message, which is a downstream
// aggregation concern, not the decoder's.
type AirbornePosition struct {
	SurveillanceStatus SurveillanceStatus
	SingleAntenna      bool
	Altitude           Altitude
	UTCSynchronized    bool
	CPRFormat          CPRFormat
	CPRLatitude        uint32 // 17 bits
	CPRLongitude       uint32 // 17 bits
}

func (AirbornePosition) isADSBMessage() {}

// EastWestDirection is the ground-velocity EW direction bit.
type EastWestDirection uint8

const (
	WestToEast EastWestDirection = iota
	EastToWest
)

func (d EastWestDirection) String() string {
	if d == EastToWest {
		return "EastToWest"
	}
	return "WestToEast"
}

// NorthSouthDirection is the ground-velocity NS direction bit.
type NorthSouthDirection uint8

const (
	SouthToNorth NorthSouthDirection = iota
	NorthToSouth
)

func (d NorthSouthDirection) String() string {
	if d == NorthToSouth {
		return "NorthToSouth"
	}
	return "SouthToNorth"
}

// GroundVelocity is the TC-19 sub-type 1/2 payload.
type GroundVelocity struct {
	SupersonicAircraft  bool
	EastWestDirection   EastWestDirection
	EastWestVelocity    uint16
	NorthSouthDirection NorthSouthDirection
	NorthSouthVelocity  uint16
}

// AirspeedType distinguishes indicated vs. true airspeed in TC-19
// sub-type 3/4 payloads.
type AirspeedType uint8

const (
	AirspeedIndicated AirspeedType = iota
	AirspeedTrue
)

func (t AirspeedType) String() string {
	if t == AirspeedTrue {
		return "True"
	}
	return "Indicated"
}

// AirborneVelocity is the TC-19 sub-type 3/4 payload.
type AirborneVelocity struct {
	SupersonicAircraft        bool
	MagneticHeadingAvailable  bool
	MagneticHeading           uint16 // raw 10-bit field value, 0..1023
	AirspeedType              AirspeedType
	Airspeed                  uint16 // knots
}

// VelocityType is the sum of the two TC-19 sub-message shapes.
type VelocityType interface {
	isVelocityType()
}

func (GroundVelocity) isVelocityType()   {}
func (AirborneVelocity) isVelocityType() {}

// VerticalRateSource distinguishes a GNSS vs. barometric vertical rate.
type VerticalRateSource uint8

const (
	VerticalRateGNSS VerticalRateSource = iota
	VerticalRateBarometer
)

func (s VerticalRateSource) String() string {
	if s == VerticalRateBarometer {
		return "Barometer"
	}
	return "GNSS"
}

// VerticalRate is {NoInformation} or {FeetPerMinute(source, value)}.
type VerticalRate struct {
	HasInformation bool
	Source         VerticalRateSource
	FeetPerMinute  int32
}

// NoVerticalRate is the canonical "no information" vertical rate value.
var NoVerticalRate = VerticalRate{}

// AltitudeDifference is {NoInformation} or {Feet(value)}.
type AltitudeDifference struct {
	HasInformation bool
	Feet           int16
}

// NoAltitudeDifference is the canonical "no information" altitude
// difference value.
var NoAltitudeDifference = AltitudeDifference{}

// Velocity is the TC-19 ADS-B message.
type Velocity struct {
	IntentChange          bool
	IFRCapability         bool
	NavigationUncertainty uint8
	VelocityType          VelocityType
	VerticalRate          VerticalRate
	AltitudeDifference    AltitudeDifference
}

func (Velocity) isADSBMessage() {}

// EmergencyState is the TC-28 sub-type 1 emergency code.
type EmergencyState uint8

const (
	EmergencyNone EmergencyState = iota
	EmergencyGeneral
	EmergencyLifeguard
	EmergencyMinimumFuel
	EmergencyNoCommunications
	EmergencyUnlawfulInterference
	EmergencyDownedAircraft
)

func (e EmergencyState) String() string {
	switch e {
	case EmergencyNone:
		return "None"
	case EmergencyGeneral:
		return "General"
	case EmergencyLifeguard:
		return "Lifeguard"
	case EmergencyMinimumFuel:
		return "MinimumFuel"
	case EmergencyNoCommunications:
		return "NoCommunications"
	case EmergencyUnlawfulInterference:
		return "UnlawfulInterference"
	case EmergencyDownedAircraft:
		return "DownedAircraft"
	default:
		return "Unknown"
	}
}

// AircraftStatus is the TC-28 ADS-B message.
type AircraftStatus struct {
	Emergency EmergencyState
	Squawk    uint16 // identity, as decoded by DecodeIdentityCode
}

func (AircraftStatus) isADSBMessage() {}

// AltitudeSource distinguishes MCP/FCU selected altitude from FMS.
type AltitudeSource uint8

const (
	AltitudeSourceUnknown AltitudeSource = iota
	AltitudeSourceMCPFCU
	AltitudeSourceFMS
)

// BarometerSetting is {None} or {MilliBar(value)}.
type BarometerSetting struct {
	HasValue bool
	MilliBar float64
}

// AltitudeSetting is {None} or {Feet(value)}.
type AltitudeSetting struct {
	HasValue bool
	Feet     int32
}

// HeadingSetting is {None} or {MagneticOrTrue(degrees)}.
type HeadingSetting struct {
	HasValue bool
	Degrees  float64
}

// TargetStateReserved is the TC-29 sub-type 0 payload, which this decoder
// does not interpret further.
type TargetStateReserved struct{}

func (TargetStateReserved) isADSBMessage() {}

// TargetState is the TC-29 sub-type 1 payload.
type TargetState struct {
	AltitudeSource   AltitudeSource
	AltitudeSetting  AltitudeSetting
	BarometerSetting BarometerSetting
	HeadingSetting   HeadingSetting
	NACp             uint8
	NICBaro          bool
	SIL              uint8
	AutopilotKnown   bool
	AutopilotEngaged bool
	VNAVEngaged      bool
	AltHoldEngaged   bool
	ApproachEngaged  bool
	TCASOperational  bool
	LNAVEngaged      bool
}

func (TargetState) isADSBMessage() {}

// UnsupportedADSB is emitted for Type Codes this decoder does not
// interpret, or whose payload contains a reserved field.
type UnsupportedADSB struct {
	Raw [7]byte
}

func (UnsupportedADSB) isADSBMessage() {}

// VerticalStatus is the 1-bit VS field shared by DF 0/16 and the FlightStatus.
type VerticalStatus uint8

const (
	StatusAirborne VerticalStatus = iota
	StatusGround
	StatusEither
)

func (v VerticalStatus) String() string {
	switch v {
	case StatusAirborne:
		return "Airborne"
	case StatusGround:
		return "Ground"
	case StatusEither:
		return "Either"
	default:
		return "Unknown"
	}
}

// CrossLink is the 1-bit CC field of DF-0.
type CrossLink uint8

const (
	CrossLinkUnsupported CrossLink = iota
	CrossLinkSupported
)

func (c CrossLink) String() string {
	if c == CrossLinkSupported {
		return "Supported"
	}
	return "Unsupported"
}

// SensitivityLevel is {Inoperative} or {Operative(1..=7)}.
type SensitivityLevel struct {
	Operative bool
	Level     uint8
}

// FlightStatus is the decoded 3-bit FS field.
type FlightStatus struct {
	Alert  bool
	SPI    bool
	Status VerticalStatus
}

// ReplyInformationKind tags the three ReplyInformation domains.
type ReplyInformationKind uint8

const (
	ReplyInfoACAS ReplyInformationKind = iota
	ReplyInfoAirspeed
	ReplyInfoUnsupported
)

// ACAS resolution values carried by ReplyInformation when Kind ==
// ReplyInfoACAS.
const (
	ACASInoperative uint8 = 0
	ACASInhibited   uint8 = 2
	ACASVerticalOnly uint8 = 3
	ACASVerticalAndHorizontal uint8 = 4
)

// ReplyInformation is the decoded 4-bit RI field.
type ReplyInformation struct {
	Kind        ReplyInformationKind
	ACASValue   uint8 // valid when Kind == ReplyInfoACAS
	AirspeedLo  uint16
	AirspeedHi  uint16 // valid when Kind == ReplyInfoAirspeed; AirspeedLo < AirspeedHi
	RawValue    uint8  // valid when Kind == ReplyInfoUnsupported
}

func (r ReplyInformation) String() string {
	switch r.Kind {
	case ReplyInfoACAS:
		switch r.ACASValue {
		case ACASInoperative:
			return "Inoperative"
		case ACASInhibited:
			return "ACASInhibited"
		case ACASVerticalOnly:
			return "ACASVerticalOnly"
		case ACASVerticalAndHorizontal:
			return "ACASVerticalAndHorizontal"
		}
	case ReplyInfoAirspeed:
		return fmt.Sprintf("MaximumAirspeedBetween(%d, %d)", r.AirspeedLo, r.AirspeedHi)
	}
	return fmt.Sprintf("Unsupported(%d)", r.RawValue)
}

// Altitude is {Invalid}, {Feet(value)}, or {Meters(value)}.
type altitudeKind uint8

const (
	altitudeInvalid altitudeKind = iota
	altitudeFeet
	altitudeMeters
)

type Altitude struct {
	kind  altitudeKind
	value int32
}

// InvalidAltitude is the canonical "no valid altitude" value.
var InvalidAltitude = Altitude{kind: altitudeInvalid}

// FeetAltitude builds an Altitude carrying a feet value.
func FeetAltitude(feet int32) Altitude { return Altitude{kind: altitudeFeet, value: feet} }

// MetersAltitude builds an Altitude carrying a meters value.
func MetersAltitude(meters int32) Altitude { return Altitude{kind: altitudeMeters, value: meters} }

// IsValid reports whether the altitude carries a decoded value.
func (a Altitude) IsValid() bool { return a.kind != altitudeInvalid }

// Feet returns the feet value and true, or (0, false) if this altitude is
// not a feet-valued altitude.
func (a Altitude) Feet() (int32, bool) {
	if a.kind == altitudeFeet {
		return a.value, true
	}
	return 0, false
}

// Meters returns the meters value and true, or (0, false) if this
// altitude is not a meters-valued altitude.
func (a Altitude) Meters() (int32, bool) {
	if a.kind == altitudeMeters {
		return a.value, true
	}
	return 0, false
}

func (a Altitude) String() string {
	switch a.kind {
	case altitudeFeet:
		return fmt.Sprintf("Feet(%d)", a.value)
	case altitudeMeters:
		return fmt.Sprintf("Meters(%d)", a.value)
	default:
		return "Invalid"
	}
}
