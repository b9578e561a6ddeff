package modes

import "testing"

func TestDecodeCallSignCharacter(t *testing.T) {
	cases := map[uint8]byte{
		1:  'A',
		26: 'Z',
		32: ' ',
		48: '0',
		57: '9',
	}
	for in, want := range cases {
		got, err := DecodeCallSignCharacter(in)
		if err != nil {
			t.Fatalf("DecodeCallSignCharacter(%d): %v", in, err)
		}
		if got != want {
			t.Errorf("DecodeCallSignCharacter(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeCallSignCharacterReserved(t *testing.T) {
	for _, v := range []uint8{0, 27, 31, 33, 47, 58, 63} {
		if _, err := DecodeCallSignCharacter(v); err == nil {
			t.Errorf("DecodeCallSignCharacter(%d): want reserved error, got nil", v)
		}
	}
}

func TestDecodeAircraftCategoryNoneForAnyTC(t *testing.T) {
	for tc := uint8(1); tc <= 4; tc++ {
		got, err := DecodeAircraftCategory(tc, 0)
		if err != nil {
			t.Fatalf("DecodeAircraftCategory(%d, 0): %v", tc, err)
		}
		if got != CategoryNone {
			t.Errorf("DecodeAircraftCategory(%d, 0) = %v, want None", tc, got)
		}
	}
}

func TestDecodeAircraftCategoryTC1Reserved(t *testing.T) {
	if _, err := DecodeAircraftCategory(1, 3); err == nil {
		t.Error("TC=1 with nonzero category: want reserved error")
	}
}

func TestDecodeFlightStatusReserved(t *testing.T) {
	for _, fs := range []uint8{6, 7} {
		if _, err := DecodeFlightStatus(fs); err == nil {
			t.Errorf("DecodeFlightStatus(%d): want reserved error", fs)
		}
	}
}

func TestDecodeFlightStatusTable(t *testing.T) {
	fs, err := DecodeFlightStatus(0)
	if err != nil || fs.Alert || fs.SPI || fs.Status != StatusAirborne {
		t.Errorf("DecodeFlightStatus(0) = %+v, err=%v", fs, err)
	}
	fs, err = DecodeFlightStatus(5)
	if err != nil || fs.Alert || !fs.SPI || fs.Status != StatusEither {
		t.Errorf("DecodeFlightStatus(5) = %+v, err=%v", fs, err)
	}
}

func TestDecodeReplyInformationAirspeedBandsOrdered(t *testing.T) {
	for v := uint8(8); v <= 13; v++ {
		ri := DecodeReplyInformation(v)
		if ri.Kind != ReplyInfoAirspeed {
			t.Fatalf("DecodeReplyInformation(%d).Kind = %v, want airspeed", v, ri.Kind)
		}
		if ri.AirspeedLo >= ri.AirspeedHi {
			t.Errorf("DecodeReplyInformation(%d): lo %d >= hi %d", v, ri.AirspeedLo, ri.AirspeedHi)
		}
	}
}

func TestDecodeReplyInformationUnsupported(t *testing.T) {
	ri := DecodeReplyInformation(1)
	if ri.Kind != ReplyInfoUnsupported || ri.RawValue != 1 {
		t.Errorf("DecodeReplyInformation(1) = %+v, want Unsupported(1)", ri)
	}
}

func TestDecodeVerticalRateNoInformation(t *testing.T) {
	vr := DecodeVerticalRate(1, 0, 0)
	if vr != NoVerticalRate {
		t.Errorf("DecodeVerticalRate(_, _, 0) = %+v, want NoVerticalRate", vr)
	}
}

func TestDecodeVerticalRateSignAndMagnitude(t *testing.T) {
	vr := DecodeVerticalRate(1, 0, 21)
	if !vr.HasInformation || vr.Source != VerticalRateBarometer || vr.FeetPerMinute != 64*20 {
		t.Errorf("DecodeVerticalRate(1,0,21) = %+v", vr)
	}
	vr = DecodeVerticalRate(0, 1, 21)
	if vr.Source != VerticalRateGNSS || vr.FeetPerMinute != -64*20 {
		t.Errorf("DecodeVerticalRate(0,1,21) = %+v", vr)
	}
}

func TestDecodeAltitudeDifferenceNoInformation(t *testing.T) {
	if DecodeAltitudeDifference(0, 0) != NoAltitudeDifference {
		t.Error("DecodeAltitudeDifference(_, 0) should be NoAltitudeDifference")
	}
}

func TestDecodeAltitudeDifferenceMagnitude(t *testing.T) {
	ad := DecodeAltitudeDifference(0, 9)
	if !ad.HasInformation || ad.Feet != 225 {
		t.Errorf("DecodeAltitudeDifference(0,9) = %+v, want Feet(225)", ad)
	}
	ad = DecodeAltitudeDifference(1, 9)
	if ad.Feet != -225 {
		t.Errorf("DecodeAltitudeDifference(1,9) = %+v, want Feet(-225)", ad)
	}
}

func TestDecodeBarometerSettingNone(t *testing.T) {
	if DecodeBarometerSetting(0).HasValue {
		t.Error("DecodeBarometerSetting(0) should have no value")
	}
}

func TestDecodeBarometerSettingValue(t *testing.T) {
	bs := DecodeBarometerSetting(1)
	if !bs.HasValue || bs.MilliBar != 800.0 {
		t.Errorf("DecodeBarometerSetting(1) = %+v, want 800.0", bs)
	}
}

func TestDecodeAltitudeSetting(t *testing.T) {
	as := DecodeAltitudeSetting(10)
	if !as.HasValue || as.Feet != 320 {
		t.Errorf("DecodeAltitudeSetting(10) = %+v, want Feet(320)", as)
	}
	if DecodeAltitudeSetting(0).HasValue {
		t.Error("DecodeAltitudeSetting(0) should have no value")
	}
}

func TestDecodeHeadingSetting(t *testing.T) {
	if DecodeHeadingSetting(0, 128).HasValue {
		t.Error("DecodeHeadingSetting(0, _) should have no value")
	}
	hs := DecodeHeadingSetting(1, 256)
	if !hs.HasValue || hs.Degrees != 180.0 {
		t.Errorf("DecodeHeadingSetting(1, 256) = %+v, want 180.0 degrees", hs)
	}
}

func TestFormatICAOAlwaysSixUppercaseHex(t *testing.T) {
	for _, n := range []uint32{0, 1, 0xABCDEF, 0xFFFFFF, 0x123456} {
		s := FormatICAO(n).String()
		if len(s) != 6 {
			t.Errorf("FormatICAO(%x) = %q, want length 6", n, s)
		}
		for _, r := range s {
			if !((r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')) {
				t.Errorf("FormatICAO(%x) = %q, contains non-uppercase-hex %q", n, s, r)
			}
		}
	}
}

func TestSignalLevelZeroByte(t *testing.T) {
	if SignalLevel(0) != 0.0 {
		t.Errorf("SignalLevel(0) = %v, want 0.0", SignalLevel(0))
	}
}

func TestIdentRoundTrip(t *testing.T) {
	// encodeID is the inverse of DecodeIdentityCode: pack the decimal
	// digits one per nibble, then swap the in/out bit roles of idPattern
	// and apply the same fold.
	encodeID := func(squawk uint16) uint16 {
		nibbles := (squawk/1000%10)<<12 | (squawk/100%10)<<8 | (squawk/10%10)<<4 | squawk%10
		var out uint16
		for _, pair := range idPattern {
			if nibbles&pair[1] == pair[1] {
				out |= pair[0]
			}
		}
		return out
	}
	for _, s := range []uint16{0, 1200, 7700, 7777, 4321} {
		if got := DecodeIdentityCode(encodeID(s)); got != s {
			t.Errorf("DecodeIdentityCode(encodeID(%d)) = %d, want %d", s, got, s)
		}
	}
}

func TestDecodeAltitudeCodeInvalidZero(t *testing.T) {
	if DecodeAltitudeCode(0) != InvalidAltitude {
		t.Error("DecodeAltitudeCode(0) should be InvalidAltitude")
	}
}

func TestDecodeAltitudeCodeQBitMonotonic(t *testing.T) {
	// Two successive Q-bit-set encodings whose concatenated payload field
	// differs by 1 must decode to altitudes 25ft apart.
	base := uint16(0x0010) // Q bit set, payload field = 0
	a := DecodeAltitudeCode(base)
	b := DecodeAltitudeCode(base | 0x0001) // payload field = 1 (low nibble)
	af, _ := a.Feet()
	bf, _ := b.Feet()
	if bf-af != 25 {
		t.Errorf("altitude step = %d, want 25", bf-af)
	}
}
