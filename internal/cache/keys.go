package cache

const (
	// KeyPrefixListing is the prefix for cached table listings
	KeyPrefixListing = "portal:listing:"

	// KeyEvents caches the upcoming-events listing
	KeyEvents = KeyPrefixListing + "events"
	// KeyNotices caches the visible-notices listing
	KeyNotices = KeyPrefixListing + "notices"
)
