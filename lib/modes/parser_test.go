package modes

import (
	"testing"

	"beast.watch/lib/bitio"
)

func mustBytes(hex ...byte) []byte { return hex }

func TestParseMessageDF0ACASSurveillance(t *testing.T) {
	payload := mustBytes(0x02, 0x81, 0x83, 0x16, 0xf9, 0x21, 0x89)
	got, ok := ParseMessage(payload).(ACASSurveillanceReply)
	if !ok {
		t.Fatalf("got %T, want ACASSurveillanceReply", ParseMessage(payload))
	}
	if got.ReplyInformation.Kind != ReplyInfoACAS || got.ReplyInformation.ACASValue != ACASVerticalOnly {
		t.Errorf("reply_information = %+v, want ACASVerticalOnly", got.ReplyInformation)
	}
	if got.SensitivityLevel.Level != 4 || !got.SensitivityLevel.Operative {
		t.Errorf("sensitivity_level = %+v, want Operative(4)", got.SensitivityLevel)
	}
	if feet, ok := got.Altitude.Feet(); !ok || feet != 3950 {
		t.Errorf("altitude = %+v, want Feet(3950)", got.Altitude)
	}
}

func TestParseMessageDF4AltitudeReply(t *testing.T) {
	payload := mustBytes(0x20, 0x00, 0x03, 0x97, 0xc2, 0x6e, 0x02)
	got, ok := ParseMessage(payload).(AltitudeReply)
	if !ok {
		t.Fatalf("got %T, want AltitudeReply", ParseMessage(payload))
	}
	if got.FlightStatus.Alert || got.FlightStatus.SPI {
		t.Errorf("flight_status = %+v, want no alert/spi", got.FlightStatus)
	}
	if got.FlightStatus.Status != StatusAirborne {
		t.Errorf("status = %v, want Airborne", got.FlightStatus.Status)
	}
	if got.DownlinkRequest != 0 || got.UtilityMessage != 0 {
		t.Errorf("dr/um = %d/%d, want 0/0", got.DownlinkRequest, got.UtilityMessage)
	}
	if feet, ok := got.Altitude.Feet(); !ok || feet != 4775 {
		t.Errorf("altitude = %+v, want Feet(4775)", got.Altitude)
	}
}

func TestParseMessageDF5SurveillanceReply(t *testing.T) {
	payload := mustBytes(0x2d, 0xa1, 0x1b, 0x00, 0x44, 0xe9, 0x57)
	got, ok := ParseMessage(payload).(SurveillanceReply)
	if !ok {
		t.Fatalf("got %T, want SurveillanceReply", ParseMessage(payload))
	}
	if !got.FlightStatus.SPI {
		t.Errorf("flight_status = %+v, want spi=true", got.FlightStatus)
	}
	if got.FlightStatus.Status != StatusEither {
		t.Errorf("status = %v, want Either", got.FlightStatus.Status)
	}
	if got.DownlinkRequest != 20 || got.UtilityMessage != 8 {
		t.Errorf("dr/um = %d/%d, want 20/8", got.DownlinkRequest, got.UtilityMessage)
	}
}

func TestParseMessageDF11AllCallReply(t *testing.T) {
	payload := mustBytes(0x5d, 0xa6, 0xa6, 0xb7, 0xfd, 0xe8, 0xb1)
	got, ok := ParseMessage(payload).(AllCallReply)
	if !ok {
		t.Fatalf("got %T, want AllCallReply", ParseMessage(payload))
	}
	if got.Capability != 5 {
		t.Errorf("capability = %d, want 5", got.Capability)
	}
	if got.ICAO.String() != "A6A6B7" {
		t.Errorf("icao = %s, want A6A6B7", got.ICAO.String())
	}
}

func TestParseMessageDF17AircraftIdentification(t *testing.T) {
	payload := mustBytes(0x8d, 0xa6, 0xee, 0x47, 0x23, 0x05, 0x30, 0x76, 0xd7, 0x48, 0x20)
	got, ok := ParseMessage(payload).(ExtendedSquitter)
	if !ok {
		t.Fatalf("got %T, want ExtendedSquitter", ParseMessage(payload))
	}
	if got.Capability != 5 {
		t.Errorf("capability = %d, want 5", got.Capability)
	}
	if got.ICAO.String() != "A6EE47" {
		t.Errorf("icao = %s, want A6EE47", got.ICAO.String())
	}
	ident, ok := got.Message.(AircraftIdentification)
	if !ok {
		t.Fatalf("message = %T, want AircraftIdentification", got.Message)
	}
	if ident.Category != CategoryMedium2 {
		t.Errorf("category = %v, want Medium2", ident.Category)
	}
}

func TestParseMessageDF17Velocity(t *testing.T) {
	payload := mustBytes(0x8d, 0xa8, 0x2d, 0xfb, 0x99, 0x10, 0x6b, 0xb2, 0x70, 0x54, 0x09)
	got, ok := ParseMessage(payload).(ExtendedSquitter)
	if !ok {
		t.Fatalf("got %T, want ExtendedSquitter", ParseMessage(payload))
	}
	if got.ICAO.String() != "A82DFB" {
		t.Errorf("icao = %s, want A82DFB", got.ICAO.String())
	}
	velocity, ok := got.Message.(Velocity)
	if !ok {
		t.Fatalf("message = %T, want Velocity", got.Message)
	}
	ground, ok := velocity.VelocityType.(GroundVelocity)
	if !ok {
		t.Fatalf("velocity_type = %T, want GroundVelocity", velocity.VelocityType)
	}
	if ground.SupersonicAircraft {
		t.Errorf("supersonic_aircraft = true, want false")
	}
	if ground.EastWestDirection != WestToEast {
		t.Errorf("east_west_direction = %v, want WestToEast", ground.EastWestDirection)
	}
	if ground.NorthSouthDirection != NorthToSouth {
		t.Errorf("north_south_direction = %v, want NorthToSouth", ground.NorthSouthDirection)
	}
	if !velocity.VerticalRate.HasInformation || velocity.VerticalRate.Source != VerticalRateBarometer {
		t.Errorf("vertical_rate = %+v, want Barometer with information", velocity.VerticalRate)
	}
	if !velocity.AltitudeDifference.HasInformation {
		t.Errorf("altitude_difference = %+v, want information present", velocity.AltitudeDifference)
	}
}

func TestParseAircraftStatusConsumesFullME(t *testing.T) {
	// TC=28, sub_type=1, emergency=1, arbitrary squawk/reserved bits.
	me := [7]byte{0xe1, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd}
	r := bitio.NewReader(me[:])
	if _, err := r.Take(5); err != nil { // TC, already dispatched on by ParseMessage
		t.Fatalf("Take(TC): %v", err)
	}
	got := parseAircraftStatus(r, me)
	if _, ok := got.(AircraftStatus); !ok {
		t.Fatalf("got %T, want AircraftStatus", got)
	}
	if r.Remaining() != 0 {
		t.Errorf("remaining = %d bits after parseAircraftStatus, want 0", r.Remaining())
	}
}

func TestParseTargetStateConsumesFullME(t *testing.T) {
	cases := map[string][7]byte{
		"sub_type=0 reserved":       {0xe8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		"sub_type=1 known_source=0": {0xea, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		"sub_type=1 known_source=1": {0xea, 0x00, 0x00, 0x00, 0x00, 0x08, 0x00},
	}
	for name, me := range cases {
		r := bitio.NewReader(me[:])
		if _, err := r.Take(5); err != nil {
			t.Fatalf("%s: Take(TC): %v", name, err)
		}
		parseTargetState(r, me)
		if r.Remaining() != 0 {
			t.Errorf("%s: remaining = %d bits after parseTargetState, want 0", name, r.Remaining())
		}
	}
}

func TestParseMessageUnsupportedDownlinkFormat(t *testing.T) {
	// DF=24 (binary 11000) is outside the supported set.
	payload := mustBytes(0xc0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)
	got, ok := ParseMessage(payload).(Unsupported)
	if !ok {
		t.Fatalf("got %T, want Unsupported", ParseMessage(payload))
	}
	if len(got.Raw) != 7 {
		t.Errorf("raw length = %d, want 7", len(got.Raw))
	}
}

func TestParseMessageNeverPanics(t *testing.T) {
	// Exercise every DF and every ADS-B TC with all-zero and all-one
	// payloads; the parser must never panic regardless of reserved bits.
	for _, length := range []int{7, 14} {
		for _, fill := range []byte{0x00, 0xff} {
			payload := make([]byte, length)
			for i := range payload {
				payload[i] = fill
			}
			for df := 0; df < 32; df++ {
				payload[0] = (payload[0] &^ 0xf8) | byte(df<<3)
				func() {
					defer func() {
						if r := recover(); r != nil {
							t.Fatalf("ParseMessage panicked on df=%d fill=%x: %v", df, fill, r)
						}
					}()
					_ = ParseMessage(payload)
				}()
			}
		}
	}
}
