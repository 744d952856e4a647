package cache

import "strconv"

// Cache keys for the upstream views the gateway serves. Mutating handlers
// invalidate these; the pollers refresh them.
const (
	KeyRooms     = "rooms"
	KeyAlerts    = "alerts"
	KeyBookings  = "bookings" // joined with a day filter
	KeyCustomers = "customers"
	KeyQuotes    = "quotes"
	KeyContracts = "contracts"
	KeySafety    = "safety_items"
	KeyArticles  = "articles"

	readingsPrefix = "readings"
)

// ReadingsKey is the per-room readings key.
func ReadingsKey(roomID int64) string {
	return Key(readingsPrefix, strconv.FormatInt(roomID, 10))
}

// ReadingsPrefix is the shared prefix of all per-room readings keys.
func ReadingsPrefix() string {
	return readingsPrefix
}
