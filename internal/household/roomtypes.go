package household

// RoomType is a room category from a fixed vocabulary.
type RoomType string

// Room types offered when creating a room. Custom is the fallback for
// anything the vocabulary does not name.
const (
	RoomKitchen    RoomType = "Kitchen"
	RoomBedroom    RoomType = "Bedroom"
	RoomLivingRoom RoomType = "Living Room"
	RoomBathroom   RoomType = "Bathroom"
	RoomOffice     RoomType = "Office"
	RoomGarage     RoomType = "Garage"
	RoomLaundry    RoomType = "Laundry"
	RoomCustom     RoomType = "Custom"
)

// Style is how a room type is drawn on the house map.
type Style struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// FallbackStyle is used for room types outside the vocabulary.
var FallbackStyle = Style{Icon: "📦", Color: "room-gray"}

var roomStyles = map[RoomType]Style{
	RoomKitchen:    {Icon: "🍳", Color: "room-orange"},
	RoomBedroom:    {Icon: "🛏️", Color: "room-blue"},
	RoomLivingRoom: {Icon: "🛋️", Color: "room-emerald"},
	RoomBathroom:   {Icon: "🚿", Color: "room-cyan"},
	RoomOffice:     {Icon: "💼", Color: "room-purple"},
	RoomGarage:     {Icon: "🚗", Color: "room-gray"},
	RoomLaundry:    {Icon: "🧺", Color: "room-pink"},
	RoomCustom:     {Icon: "✏️", Color: "room-yellow"},
}

// AllRoomTypes returns the vocabulary in display order.
func AllRoomTypes() []RoomType {
	return []RoomType{
		RoomKitchen, RoomBedroom, RoomLivingRoom, RoomBathroom,
		RoomOffice, RoomGarage, RoomLaundry, RoomCustom,
	}
}

// Valid reports whether t is in the vocabulary.
func (t RoomType) Valid() bool {
	_, ok := roomStyles[t]
	return ok
}

// StyleFor returns the icon and colour for a room type.
func StyleFor(t RoomType) Style {
	if s, ok := roomStyles[t]; ok {
		return s
	}
	return FallbackStyle
}
