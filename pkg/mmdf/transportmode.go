package mmdf

type ModeCategory string

//goland:noinspection GoUnusedConst
const (
	ModeCategoryBus       ModeCategory = "Bus"
	ModeCategoryMetro                  = "Metro"
	ModeCategoryTram                   = "Tram"
	ModeCategoryTrain                  = "Train"
	ModeCategoryFerry                  = "Ferry"
	ModeCategoryRideHail               = "RideHail"
	ModeCategoryBikeShare              = "BikeShare"
	ModeCategoryScooter                = "Scooter"
	ModeCategoryWalking                = "Walking"
	ModeCategoryUnknown                = "UNKNOWN"
)

type ModeClass string

const (
	ModeClassPublic  ModeClass = "Public"
	ModeClassShared            = "Shared"
	ModeClassActive            = "Active"
	ModeClassPrivate           = "Private"
)

// TransportMode is the static descriptor of a travel mode a provider can
// produce segments for. Constructed once by the provider and shared by
// reference across all segments of that mode.
type TransportMode struct {
	PrimaryIdentifier string `groups:"basic"`
	Name              string `groups:"basic"`

	Category ModeCategory `groups:"basic"`
	Class    ModeClass    `groups:"basic"`

	CostPerKm       float64 `groups:"detailed"`
	AverageSpeedKph float64 `groups:"detailed"`
	EmissionsPerKm  float64 `groups:"detailed"` // grams CO2

	AccessibilityScore int `groups:"detailed"` // 1-10
}
