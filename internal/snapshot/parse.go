package snapshot

import "strconv"

// Statestream values Home Assistant uses for "no value".
func unavailable(v string) bool {
	return v == "" || v == "unavailable" || v == "unknown" || v == "none"
}

// parseFloat parses a numeric state value. Unavailable markers and
// malformed numbers report false.
func parseFloat(v string) (float64, bool) {
	if unavailable(v) {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseBool parses a binary state value. Home Assistant publishes "on"/"off"
// for binary sensors and "home"/"not_home" for presence trackers.
func parseBool(v string) (bool, bool) {
	switch v {
	case "on", "true", "home", "detected", "open":
		return true, true
	case "off", "false", "not_home", "away", "clear", "closed":
		return false, true
	default:
		return false, false
	}
}
