package catalog

import "strings"

var livingRoomHints = []string{"living", "sofa", "couch"}

// IsLivingRoomLabel reports whether a room label names a living room, ignoring case.
func IsLivingRoomLabel(label string) bool {
	return strings.Contains(strings.ToLower(label), "living room")
}

// SuggestsLivingRoom reports whether a free-text room description reads like a
// living room. It is a plain keyword match and will fire on phrases such as
// "living plants"; prompts only use it to add optional furnishing hints.
func SuggestsLivingRoom(description string) bool {
	lower := strings.ToLower(description)
	for _, hint := range livingRoomHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
