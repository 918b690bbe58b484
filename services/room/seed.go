package room

import "transylvania/models"

// DefaultCatalogue is the five-room catalogue the app ships with. Seeding
// upserts by ID, so re-seeding resets any live booking status.
func DefaultCatalogue() []models.Room {
	return []models.Room{
		{
			ID: 1, Name: "Deluxe King", Image: "/assets/rooms/room-1.jpg",
			Short: "Spacious king room with a city view.",
			Description: "A spacious room with a king-size bed, a city view and complimentary breakfast.",
			Capacity: 2, Price: 180, Amenities: roomAmenities[1], Status: models.RoomStatusAvailable,
		},
		{
			ID: 2, Name: "Twin Workspace", Image: "/assets/rooms/room-2.jpg",
			Short: "Two twin beds and a dedicated desk.",
			Description: "Two twin beds with a dedicated workspace, ideal for colleagues travelling together.",
			Capacity: 2, Price: 140, Amenities: roomAmenities[2], Status: models.RoomStatusAvailable,
		},
		{
			ID: 3, Name: "Family Suite", Image: "/assets/rooms/room-3.jpg",
			Short: "Sleeps four, crib available.",
			Description: "Our family suite sleeps four comfortably, with extra bedding and a crib on request.",
			Capacity: 4, Price: 220, Amenities: roomAmenities[3], Status: models.RoomStatusAvailable,
		},
		{
			ID: 4, Name: "Classic Queen", Image: "/assets/rooms/room-4.jpg",
			Short: "Cosy queen room.",
			Description: "A cosy queen room with everything you need for a comfortable stay.",
			Capacity: 2, Price: 120, Amenities: roomAmenities[4], Status: models.RoomStatusAvailable,
		},
		{
			ID: 5, Name: "Executive Suite", Image: "/assets/rooms/room-5.jpg",
			Short: "Separate living area and premium touches.",
			Description: "An executive suite with a separate living area, a workspace and premium toiletries.",
			Capacity: 3, Price: 280, Amenities: roomAmenities[5], Status: models.RoomStatusAvailable,
		},
	}
}
