package modes

import "beast.watch/lib/bitio"

// ParseMessage reads a Mode-S payload (7 bytes for DF < 16, 14 bytes for
// DF >= 16) and dispatches on the 5-bit Downlink Format. It never returns
// an error: any malformed or unsupported input collapses to Unsupported,
// per the total-parsing policy.
func ParseMessage(payload []byte) Data {
	r := bitio.NewReader(payload)
	df, err := r.Take(5)
	if err != nil {
		return Unsupported{Raw: payload}
	}

	switch df {
	case 0:
		return parseACASSurveillanceReply(r, payload)
	case 4:
		return parseAltitudeReply(r, payload)
	case 5:
		return parseSurveillanceReply(r, payload)
	case 11:
		return parseAllCallReply(r, payload)
	case 16:
		return parseACASCoordinationReply(r, payload)
	case 17:
		return parseExtendedSquitter(r, payload)
	default:
		return Unsupported{Raw: payload}
	}
}

func parseACASSurveillanceReply(r *bitio.Reader, raw []byte) Data {
	vs, err1 := r.Take(1)
	cc, err2 := r.Take(1)
	_, err3 := r.Take(1) // skip
	sl, err4 := r.Take(3)
	_, err5 := r.Take(2) // skip
	ri, err6 := r.Take(4)
	_, err7 := r.Take(2) // skip
	ac, err8 := r.Take(13)
	if anyErr(err1, err2, err3, err4, err5, err6, err7, err8) {
		return Unsupported{Raw: raw}
	}
	return ACASSurveillanceReply{
		VerticalStatus:   DecodeVerticalStatus(uint8(vs)),
		CrossLink:        DecodeCrossLink(uint8(cc)),
		SensitivityLevel: DecodeSensitivityLevel(uint8(sl)),
		ReplyInformation: DecodeReplyInformation(uint8(ri)),
		Altitude:         DecodeAltitudeCode(uint16(ac)),
	}
}

func parseAltitudeReply(r *bitio.Reader, raw []byte) Data {
	fs, err1 := r.Take(3)
	dr, err2 := r.Take(5)
	um, err3 := r.Take(6)
	ac, err4 := r.Take(13)
	if anyErr(err1, err2, err3, err4) {
		return Unsupported{Raw: raw}
	}
	flightStatus, ferr := DecodeFlightStatus(uint8(fs))
	if ferr != nil {
		return Unsupported{Raw: raw}
	}
	return AltitudeReply{
		FlightStatus:    flightStatus,
		DownlinkRequest: uint8(dr),
		UtilityMessage:  uint8(um),
		Altitude:        DecodeAltitudeCode(uint16(ac)),
	}
}

func parseSurveillanceReply(r *bitio.Reader, raw []byte) Data {
	fs, err1 := r.Take(3)
	dr, err2 := r.Take(5)
	um, err3 := r.Take(6)
	id, err4 := r.Take(13)
	if anyErr(err1, err2, err3, err4) {
		return Unsupported{Raw: raw}
	}
	flightStatus, ferr := DecodeFlightStatus(uint8(fs))
	if ferr != nil {
		return Unsupported{Raw: raw}
	}
	return SurveillanceReply{
		FlightStatus:    flightStatus,
		DownlinkRequest: uint8(dr),
		UtilityMessage:  uint8(um),
		Identity:        DecodeIdentityCode(uint16(id)),
	}
}

func parseAllCallReply(r *bitio.Reader, raw []byte) Data {
	ca, err1 := r.Take(3)
	aa, err2 := r.Take(24)
	parity, err3 := r.Take(24)
	if anyErr(err1, err2, err3) {
		return Unsupported{Raw: raw}
	}
	return AllCallReply{
		Capability: uint8(ca),
		ICAO:       FormatICAO(uint32(aa)),
		Parity:     uint32(parity),
	}
}

func parseACASCoordinationReply(r *bitio.Reader, raw []byte) Data {
	vs, err1 := r.Take(1)
	_, err2 := r.Take(2) // skip
	sl, err3 := r.Take(3)
	_, err4 := r.Take(2) // skip
	ri, err5 := r.Take(4)
	_, err6 := r.Take(2) // skip
	ac, err7 := r.Take(13)
	mv, err8 := r.Take(56)
	if anyErr(err1, err2, err3, err4, err5, err6, err7, err8) {
		return Unsupported{Raw: raw}
	}
	var buf [7]byte
	for i := 0; i < 7; i++ {
		buf[6-i] = byte(mv >> (8 * i))
	}
	return ACASCoordinationReply{
		VerticalStatus:   DecodeVerticalStatus(uint8(vs)),
		SensitivityLevel: DecodeSensitivityLevel(uint8(sl)),
		ReplyInformation: DecodeReplyInformation(uint8(ri)),
		Altitude:         DecodeAltitudeCode(uint16(ac)),
		MV:               buf,
	}
}

func parseExtendedSquitter(r *bitio.Reader, raw []byte) Data {
	ca, err1 := r.Take(3)
	aa, err2 := r.Take(24)
	me, err3 := r.Take(56)
	if anyErr(err1, err2, err3) {
		return Unsupported{Raw: raw}
	}
	var meBytes [7]byte
	for i := 0; i < 7; i++ {
		meBytes[6-i] = byte(me >> (8 * i))
	}
	return ExtendedSquitter{
		Capability: uint8(ca),
		ICAO:       FormatICAO(uint32(aa)),
		Message:    parseADSBMessage(meBytes),
	}
}

func parseADSBMessage(me [7]byte) ADSBMessage {
	r := bitio.NewReader(me[:])
	tc, err := r.Take(5)
	if err != nil {
		return UnsupportedADSB{Raw: me}
	}

	switch {
	case tc >= 1 && tc <= 4:
		return parseAircraftIdentification(uint8(tc), r, me)
	case (tc >= 9 && tc <= 18) || (tc >= 20 && tc <= 22):
		return parseAirbornePosition(r, me)
	case tc == 19:
		return parseVelocity(r, me)
	case tc == 28:
		return parseAircraftStatus(r, me)
	case tc == 29:
		return parseTargetState(r, me)
	default:
		return UnsupportedADSB{Raw: me}
	}
}

func parseAircraftIdentification(tc uint8, r *bitio.Reader, raw [7]byte) ADSBMessage {
	if tc == 1 {
		return UnsupportedADSB{Raw: raw}
	}
	cat, err := r.Take(3)
	if err != nil {
		return UnsupportedADSB{Raw: raw}
	}
	category, cerr := DecodeAircraftCategory(tc, uint8(cat))
	if cerr != nil {
		return UnsupportedADSB{Raw: raw}
	}

	var chars [8]byte
	for i := 0; i < 8; i++ {
		v, terr := r.Take(6)
		if terr != nil {
			return UnsupportedADSB{Raw: raw}
		}
		ch, cherr := DecodeCallSignCharacter(uint8(v))
		if cherr != nil {
			return UnsupportedADSB{Raw: raw}
		}
		chars[i] = ch
	}
	return AircraftIdentification{Category: category, CallSign: string(chars[:])}
}

func parseAirbornePosition(r *bitio.Reader, raw [7]byte) ADSBMessage {
	ss, err1 := r.Take(2)
	saf, err2 := r.Take(1)
	alt, err3 := r.Take(12)
	t, err4 := r.Take(1)
	f, err5 := r.Take(1)
	lat, err6 := r.Take(17)
	lon, err7 := r.Take(17)
	if anyErr(err1, err2, err3, err4, err5, err6, err7) {
		return UnsupportedADSB{Raw: raw}
	}
	return AirbornePosition{
		SurveillanceStatus: DecodeSurveillanceStatus(uint8(ss)),
		SingleAntenna:      saf != 0,
		Altitude:           DecodeAltitudeCode(uint16(alt)),
		UTCSynchronized:    t != 0,
		CPRFormat:          DecodeCPRFormat(uint8(f)),
		CPRLatitude:        uint32(lat),
		CPRLongitude:       uint32(lon),
	}
}

func parseVelocity(r *bitio.Reader, raw [7]byte) ADSBMessage {
	subType, err1 := r.Take(3)
	intentChange, err2 := r.Take(1)
	ifr, err3 := r.Take(1)
	nuc, err4 := r.Take(3)
	payload, err5 := r.Take(22)
	vrSource, err6 := r.Take(1)
	vrSign, err7 := r.Take(1)
	vrMagnitude, err8 := r.Take(9)
	_, err9 := r.Take(2) // skip
	adSign, err10 := r.Take(1)
	adMagnitude, err11 := r.Take(7)
	if anyErr(err1, err2, err3, err4, err5, err6, err7, err8, err9, err10, err11) {
		return UnsupportedADSB{Raw: raw}
	}
	if subType < 1 || subType > 4 {
		return UnsupportedADSB{Raw: raw}
	}

	var velocityType VelocityType
	pr := bitio.NewReader(pack22(uint32(payload)))
	if err := pr.Skip(2); err != nil { // pack22's two zero pad bits
		return UnsupportedADSB{Raw: raw}
	}
	if subType == 1 || subType == 2 {
		ewDir, e1 := pr.Take(1)
		ewVel, e2 := pr.Take(10)
		nsDir, e3 := pr.Take(1)
		nsVel, e4 := pr.Take(10)
		if anyErr(e1, e2, e3, e4) {
			return UnsupportedADSB{Raw: raw}
		}
		velocityType = GroundVelocity{
			SupersonicAircraft:  subType == 2,
			EastWestDirection:   eastWestDirection(uint8(ewDir)),
			EastWestVelocity:    uint16(ewVel),
			NorthSouthDirection: northSouthDirection(uint8(nsDir)),
			NorthSouthVelocity:  uint16(nsVel),
		}
	} else {
		headingAvailable, e1 := pr.Take(1)
		heading, e2 := pr.Take(10)
		airspeedType, e3 := pr.Take(1)
		airspeed, e4 := pr.Take(10)
		if anyErr(e1, e2, e3, e4) {
			return UnsupportedADSB{Raw: raw}
		}
		at := AirspeedIndicated
		if airspeedType != 0 {
			at = AirspeedTrue
		}
		velocityType = AirborneVelocity{
			SupersonicAircraft:       subType == 4,
			MagneticHeadingAvailable: headingAvailable != 0,
			MagneticHeading:          uint16(heading),
			AirspeedType:             at,
			Airspeed:                 uint16(airspeed),
		}
	}

	return Velocity{
		IntentChange:          intentChange != 0,
		IFRCapability:         ifr != 0,
		NavigationUncertainty: uint8(nuc),
		VelocityType:          velocityType,
		VerticalRate:          DecodeVerticalRate(uint8(vrSource), uint8(vrSign), uint16(vrMagnitude)),
		AltitudeDifference:    DecodeAltitudeDifference(uint8(adSign), uint8(adMagnitude)),
	}
}

// pack22 right-aligns a 22-bit value into 3 bytes (24 bits, top 2 bits
// zero) so it can be re-read with a fresh bitio.Reader.
func pack22(v uint32) []byte {
	return []byte{
		byte(v >> 16),
		byte(v >> 8),
		byte(v),
	}
}

func eastWestDirection(bit uint8) EastWestDirection {
	if bit != 0 {
		return EastToWest
	}
	return WestToEast
}

func northSouthDirection(bit uint8) NorthSouthDirection {
	if bit != 0 {
		return NorthToSouth
	}
	return SouthToNorth
}

func parseAircraftStatus(r *bitio.Reader, raw [7]byte) ADSBMessage {
	subType, err1 := r.Take(3)
	emergency, err2 := r.Take(3)
	squawk, err3 := r.Take(13)
	if anyErr(err1, err2, err3) {
		return UnsupportedADSB{Raw: raw}
	}
	var em EmergencyState
	if subType == 0 {
		em = EmergencyNone
	} else {
		var eerr error
		em, eerr = DecodeEmergencyState(uint8(emergency))
		if eerr != nil {
			return UnsupportedADSB{Raw: raw}
		}
	}
	if err := r.Skip(32); err != nil { // reserved, pads ME to 56 bits
		return UnsupportedADSB{Raw: raw}
	}
	return AircraftStatus{
		Emergency: em,
		Squawk:    DecodeIdentityCode(uint16(squawk)),
	}
}

func parseTargetState(r *bitio.Reader, raw [7]byte) ADSBMessage {
	subType, err := r.Take(2)
	if err != nil {
		return UnsupportedADSB{Raw: raw}
	}
	if subType == 0 {
		if err := r.Skip(49); err != nil { // reserved, pads ME to 56 bits
			return UnsupportedADSB{Raw: raw}
		}
		return TargetStateReserved{}
	}
	if subType != 1 {
		return UnsupportedADSB{Raw: raw}
	}

	silSupplement, err1 := r.Take(1)
	fms, err2 := r.Take(1)
	altSetting, err3 := r.Take(10)
	baro, err4 := r.Take(9)
	headingValid, err5 := r.Take(1)
	heading, err6 := r.Take(9)
	nacp, err7 := r.Take(3)
	nicBaro, err8 := r.Take(1)
	sil, err9 := r.Take(2)
	knownSource, err10 := r.Take(1)
	if anyErr(err1, err2, err3, err4, err5, err6, err7, err8, err9, err10) {
		return UnsupportedADSB{Raw: raw}
	}
	_ = silSupplement

	altSource := AltitudeSourceFMS
	if fms == 0 {
		altSource = AltitudeSourceMCPFCU
	}

	ts := TargetState{
		AltitudeSource:   altSource,
		AltitudeSetting:  DecodeAltitudeSetting(uint16(altSetting)),
		BarometerSetting: DecodeBarometerSetting(uint16(baro)),
		HeadingSetting:   DecodeHeadingSetting(uint8(headingValid), uint16(heading)),
		NACp:             uint8(nacp),
		NICBaro:          nicBaro != 0,
		SIL:              uint8(sil),
	}

	if knownSource == 0 {
		if err := r.Skip(11); err != nil { // reserved, pads ME to 56 bits
			return UnsupportedADSB{Raw: raw}
		}
		return ts
	}

	autopilot, e1 := r.Take(1)
	vnav, e2 := r.Take(1)
	altHold, e3 := r.Take(1)
	_, e4 := r.Take(1) // reserved
	approach, e5 := r.Take(1)
	tcas, e6 := r.Take(1)
	lnav, e7 := r.Take(1)
	if anyErr(e1, e2, e3, e4, e5, e6, e7) {
		return UnsupportedADSB{Raw: raw}
	}
	if err := r.Skip(4); err != nil { // reserved, pads ME to 56 bits
		return UnsupportedADSB{Raw: raw}
	}
	ts.AutopilotKnown = true
	ts.AutopilotEngaged = autopilot != 0
	ts.VNAVEngaged = vnav != 0
	ts.AltHoldEngaged = altHold != 0
	ts.ApproachEngaged = approach != 0
	ts.TCASOperational = tcas != 0
	ts.LNAVEngaged = lnav != 0
	return ts
}

func anyErr(errs ...error) bool {
	for _, e := range errs {
		if e != nil {
			return true
		}
	}
	return false
}
