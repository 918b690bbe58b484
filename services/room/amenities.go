package room

// Amenity catalogue keyed by room ID. Used as the answer source for the
// assistant when a room document carries no amenity list of its own.
var roomAmenities = map[int][]string{
	1: {"King bed", "City view", "Wi-Fi", "Air conditioning", "Private bathroom", "Smart TV", "Complimentary breakfast"},
	2: {"Two twin beds", "Workspace", "Wi-Fi", "Air conditioning", "Mini fridge", "Smart TV"},
	3: {"Family capacity (4)", "Extra bedding on request", "Wi-Fi", "Air conditioning", "Smart TV", "Crib available"},
	4: {"Queen bed", "Wi-Fi", "Air conditioning", "Private bathroom", "Smart TV"},
	5: {"Separate living area", "Workspace", "Wi-Fi", "Air conditioning", "Nespresso machine", "Smart TV", "Premium toiletries"},
}

// Amenities returns the catalogue entry for a room, or nil.
func (s *DefaultService) Amenities(id int) []string {
	return roomAmenities[id]
}
