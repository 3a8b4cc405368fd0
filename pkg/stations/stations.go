package stations

import (
	"fmt"
)

type Direction string

const (
	DirectionNorthbound Direction = "Northbound"
	DirectionSouthbound Direction = "Southbound"
)

// GTFSDirectionID returns the GTFS direction_id value for this direction.
// The Caltrain feed uses 0 for northbound and 1 for southbound trips.
func (d Direction) GTFSDirectionID() string {
	if d == DirectionNorthbound {
		return "0"
	}
	return "1"
}

func (d Direction) Opposite() Direction {
	if d == DirectionNorthbound {
		return DirectionSouthbound
	}
	return DirectionNorthbound
}

type Station struct {
	ID   string `json:"id" groups:"basic"`
	Name string `json:"name" groups:"basic"`
	Code string `json:"code" groups:"basic"`

	Latitude  float64 `json:"latitude" groups:"detailed"`
	Longitude float64 `json:"longitude" groups:"detailed"`

	// gtfsBase is the numeric stop_id prefix the timetable uses for this
	// station. The full stop_id appends 1 (northbound platform) or 2
	// (southbound platform).
	gtfsBase string
}

// Stations is the fixed line geography, ordered north to south. Direction
// resolution relies on this ordering, never on name comparison.
var Stations = []Station{
	{ID: "sf", Name: "San Francisco (4th & King)", Code: "SF", Latitude: 37.7765, Longitude: -122.3943, gtfsBase: "7001"},
	{ID: "22nd", Name: "22nd Street", Code: "22ND", Latitude: 37.7571, Longitude: -122.3921, gtfsBase: "7002"},
	{ID: "bayshore", Name: "Bayshore", Code: "BAYSHORE", Latitude: 37.7089, Longitude: -122.4015, gtfsBase: "7003"},
	{ID: "ssf", Name: "South San Francisco", Code: "SSF", Latitude: 37.6569, Longitude: -122.4061, gtfsBase: "7004"},
	{ID: "sb", Name: "San Bruno", Code: "SB", Latitude: 37.6309, Longitude: -122.4111, gtfsBase: "7005"},
	{ID: "mb", Name: "Millbrae", Code: "MB", Latitude: 37.6000, Longitude: -122.3867, gtfsBase: "7006"},
	{ID: "burlingame", Name: "Burlingame", Code: "BURLINGAME", Latitude: 37.5793, Longitude: -122.3459, gtfsBase: "7008"},
	{ID: "sm", Name: "San Mateo", Code: "SM", Latitude: 37.5683, Longitude: -122.3244, gtfsBase: "7009"},
	{ID: "hayward-park", Name: "Hayward Park", Code: "HAYWARD", Latitude: 37.5530, Longitude: -122.3090, gtfsBase: "7010"},
	{ID: "hillsdale", Name: "Hillsdale", Code: "HILLSDALE", Latitude: 37.5378, Longitude: -122.2971, gtfsBase: "7011"},
	{ID: "belmont", Name: "Belmont", Code: "BELMONT", Latitude: 37.5206, Longitude: -122.2758, gtfsBase: "7012"},
	{ID: "sc", Name: "San Carlos", Code: "SC", Latitude: 37.5071, Longitude: -122.2603, gtfsBase: "7013"},
	{ID: "rw", Name: "Redwood City", Code: "RW", Latitude: 37.4854, Longitude: -122.2314, gtfsBase: "7014"},
	{ID: "mp", Name: "Menlo Park", Code: "MP", Latitude: 37.4544, Longitude: -122.1819, gtfsBase: "7016"},
	{ID: "pa", Name: "Palo Alto", Code: "PA", Latitude: 37.4429, Longitude: -122.1646, gtfsBase: "7017"},
	{ID: "stanford", Name: "Stanford", Code: "STANFORD", Latitude: 37.4294, Longitude: -122.1713, gtfsBase: "253774"},
	{ID: "cal-ave", Name: "California Ave", Code: "CALAVEUE", Latitude: 37.4292, Longitude: -122.1421, gtfsBase: "7019"},
	{ID: "san-antonio", Name: "San Antonio", Code: "SANANTONIO", Latitude: 37.4070, Longitude: -122.1065, gtfsBase: "7020"},
	{ID: "mv", Name: "Mountain View", Code: "MV", Latitude: 37.3946, Longitude: -122.0766, gtfsBase: "7021"},
	{ID: "sunnyvale", Name: "Sunnyvale", Code: "SUNNYVALE", Latitude: 37.3784, Longitude: -122.0308, gtfsBase: "7022"},
	{ID: "lawrence", Name: "Lawrence", Code: "LAWRENCE", Latitude: 37.3702, Longitude: -121.9968, gtfsBase: "7023"},
	{ID: "santa-clara", Name: "Santa Clara", Code: "SANTACLARA", Latitude: 37.3529, Longitude: -121.9364, gtfsBase: "7024"},
	{ID: "college-park", Name: "College Park", Code: "COLLEGEPARK", Latitude: 37.3427, Longitude: -121.9145, gtfsBase: "7025"},
	{ID: "diridon", Name: "San Jose Diridon", Code: "DIRIDON", Latitude: 37.3297, Longitude: -121.9024, gtfsBase: "7026"},
	{ID: "tamien", Name: "Tamien", Code: "TAMIEN", Latitude: 37.3115, Longitude: -121.8841, gtfsBase: "7027"},
	{ID: "capitol", Name: "Capitol", Code: "CAPITOL", Latitude: 37.2880, Longitude: -121.8423, gtfsBase: "7028"},
	{ID: "blossom-hill", Name: "Blossom Hill", Code: "BLOSSOMHILL", Latitude: 37.2526, Longitude: -121.7979, gtfsBase: "7029"},
	{ID: "morgan-hill", Name: "Morgan Hill", Code: "MORGANHILL", Latitude: 37.1296, Longitude: -121.6504, gtfsBase: "7030"},
	{ID: "san-martin", Name: "San Martin", Code: "SANMARTIN", Latitude: 37.0858, Longitude: -121.6106, gtfsBase: "7031"},
	{ID: "gilroy", Name: "Gilroy", Code: "GILROY", Latitude: 37.0033, Longitude: -121.5666, gtfsBase: "7032"},
}

func GetByID(id string) *Station {
	for index, station := range Stations {
		if station.ID == id {
			return &Stations[index]
		}
	}

	return nil
}

func GetByName(name string) *Station {
	for index, station := range Stations {
		if station.Name == name {
			return &Stations[index]
		}
	}

	return nil
}

func indexOf(id string) int {
	for index, station := range Stations {
		if station.ID == id {
			return index
		}
	}

	return -1
}

// ResolveDirection derives the travel direction from the relative position of
// the two stations in the north-to-south station list.
func ResolveDirection(originID string, destinationID string) (Direction, error) {
	originIndex := indexOf(originID)
	destinationIndex := indexOf(destinationID)

	if originIndex == -1 {
		return "", fmt.Errorf("unknown station %q", originID)
	}
	if destinationIndex == -1 {
		return "", fmt.Errorf("unknown station %q", destinationID)
	}
	if originIndex == destinationIndex {
		return "", fmt.Errorf("origin and destination are the same station %q", originID)
	}

	if originIndex > destinationIndex {
		return DirectionNorthbound, nil
	}
	return DirectionSouthbound, nil
}

// GTFSStopID maps a station to the timetable stop_id serving it in the given
// direction. Stations with no mapping fail closed.
func (s *Station) GTFSStopID(direction Direction) (string, error) {
	if s.gtfsBase == "" {
		return "", fmt.Errorf("station %q has no timetable stop mapping", s.ID)
	}

	// Stanford's stop identifiers don't follow the 4-digit platform scheme
	if s.gtfsBase == "253774" {
		if direction == DirectionNorthbound {
			return "2537740", nil
		}
		return "2537744", nil
	}

	if direction == DirectionNorthbound {
		return s.gtfsBase + "1", nil
	}
	return s.gtfsBase + "2", nil
}
