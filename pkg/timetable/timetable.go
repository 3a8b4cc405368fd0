package timetable

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"

	"github.com/bayrail/bayrail/pkg/cache"
)

const cacheExpiry = 24 * time.Hour

// Tables holds one parsed generation of the static timetable. It is built
// once per load and never mutated afterwards.
type Tables struct {
	Trips         []Trip
	StopTimes     []StopTime
	Calendars     []Calendar
	CalendarDates []CalendarDate

	tripsByService  map[string][]Trip
	stopTimesByTrip map[string][]StopTime
}

func (t *Tables) index() {
	t.tripsByService = map[string][]Trip{}
	for _, trip := range t.Trips {
		t.tripsByService[trip.ServiceID] = append(t.tripsByService[trip.ServiceID], trip)
	}

	t.stopTimesByTrip = map[string][]StopTime{}
	for _, stopTime := range t.StopTimes {
		t.stopTimesByTrip[stopTime.TripID] = append(t.stopTimesByTrip[stopTime.TripID], stopTime)
	}
}

func (t *Tables) TripsForService(serviceID string) []Trip {
	return t.tripsByService[serviceID]
}

func (t *Tables) StopTimesForTrip(tripID string) []StopTime {
	return t.stopTimesByTrip[tripID]
}

// StopTimeAt returns the stop-time row for the trip at the given stop, or nil
// when the trip does not call there.
func (t *Tables) StopTimeAt(tripID string, stopID string) *StopTime {
	for index, stopTime := range t.stopTimesByTrip[tripID] {
		if stopTime.StopID == stopID {
			return &t.stopTimesByTrip[tripID][index]
		}
	}

	return nil
}

func (t *Tables) StopCount(tripID string) int {
	return len(t.stopTimesByTrip[tripID])
}

// Store loads and caches the static timetable. Reads outside the expiry
// window trigger a wholesale re-parse; a refresh failure leaves empty tables
// rather than stale partial state.
type Store struct {
	ScheduleURL string
	LocalDir    string
	APIKey      string
	Location    *time.Location
	HTTPClient  *http.Client

	cached *cache.TTL[*Tables]
}

func NewStore(scheduleURL string, localDir string, apiKey string) *Store {
	pacific, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load Pacific timezone")
	}

	return &Store{
		ScheduleURL: scheduleURL,
		LocalDir:    localDir,
		APIKey:      apiKey,
		Location:    pacific,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		cached:      cache.NewTTL[*Tables](cacheExpiry),
	}
}

// EnsureLoaded returns the current timetable tables, loading them when the
// cache is cold or expired. On load failure it returns empty tables and an
// error; callers treat that as "no schedule available", not as fatal.
func (s *Store) EnsureLoaded() (*Tables, error) {
	tables, err := s.cached.Fetch(s.load)
	if err != nil {
		return &Tables{}, err
	}

	return tables, nil
}

func (s *Store) load() (*Tables, error) {
	if s.APIKey != "" {
		tables, err := s.loadRemote()
		if err == nil {
			return tables, nil
		}

		log.Error().Err(err).Msg("Remote timetable fetch failed, trying local files")
	}

	return s.loadLocal()
}

func (s *Store) loadRemote() (*Tables, error) {
	log.Info().Str("url", s.ScheduleURL).Msg("Fetching static timetable archive")

	var body []byte
	operation := func() error {
		resp, err := s.HTTPClient.Get(s.ScheduleURL)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("timetable archive returned %d", resp.StatusCode)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	}

	err := backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3))
	if err != nil {
		return nil, err
	}

	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, err
	}

	tables := &Tables{}
	fileMap := map[string]any{
		"stop_times.txt":     &tables.StopTimes,
		"trips.txt":          &tables.Trips,
		"calendar.txt":       &tables.Calendars,
		"calendar_dates.txt": &tables.CalendarDates,
	}

	found := map[string]bool{}
	for _, zipFile := range archive.File {
		destination, exists := fileMap[zipFile.Name]
		if !exists {
			continue
		}

		file, err := zipFile.Open()
		if err != nil {
			return nil, err
		}

		err = unmarshalCSV(file, destination)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", zipFile.Name, err)
		}

		found[zipFile.Name] = true
	}

	// calendar_dates.txt is the only optional table
	for _, required := range []string{"stop_times.txt", "trips.txt", "calendar.txt"} {
		if !found[required] {
			return nil, fmt.Errorf("archive missing required table %s", required)
		}
	}

	tables.index()

	log.Info().
		Int("stoptimes", len(tables.StopTimes)).
		Int("trips", len(tables.Trips)).
		Msg("Timetable loaded from remote archive")

	return tables, nil
}

func (s *Store) loadLocal() (*Tables, error) {
	tables := &Tables{}
	fileMap := map[string]any{
		"stop_times.txt":     &tables.StopTimes,
		"trips.txt":          &tables.Trips,
		"calendar.txt":       &tables.Calendars,
		"calendar_dates.txt": &tables.CalendarDates,
	}

	for name, destination := range fileMap {
		file, err := os.Open(filepath.Join(s.LocalDir, name))
		if err != nil {
			if name == "calendar_dates.txt" && errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}

		err = unmarshalCSV(file, destination)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing local %s: %w", name, err)
		}
	}

	tables.index()

	log.Info().
		Int("stoptimes", len(tables.StopTimes)).
		Int("trips", len(tables.Trips)).
		Str("dir", s.LocalDir).
		Msg("Timetable loaded from local files")

	return tables, nil
}

func unmarshalCSV(reader io.Reader, destination any) error {
	// Tolerate rows with missing trailing columns
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})

	return gocsv.Unmarshal(reader, destination)
}

// ActiveServiceOn resolves the calendar service operating on the local civil
// date of the given instant. An exact-date "service added" exception wins
// outright; otherwise the first calendar row whose date range and weekday
// pattern match, and which carries no "service removed" exception for that
// date, is used. Empty string means no service operates.
func (s *Store) ActiveServiceOn(t time.Time, tables *Tables) string {
	local := t.In(s.Location)
	dateStr := local.Format("20060102")
	weekday := int(local.Weekday())

	for _, exception := range tables.CalendarDates {
		if exception.Date == dateStr && exception.ExceptionType == ExceptionServiceAdded {
			return exception.ServiceID
		}
	}

	currentDate, err := strconv.Atoi(dateStr)
	if err != nil {
		return ""
	}

	for _, calendar := range tables.Calendars {
		startDate, err := strconv.Atoi(calendar.Start)
		if err != nil {
			continue
		}
		endDate, err := strconv.Atoi(calendar.End)
		if err != nil {
			continue
		}

		if currentDate < startDate || currentDate > endDate {
			continue
		}

		removed := false
		for _, exception := range tables.CalendarDates {
			if exception.Date == dateStr && exception.ServiceID == calendar.ServiceID && exception.ExceptionType == ExceptionServiceRemoved {
				removed = true
				break
			}
		}
		if removed {
			continue
		}

		if calendar.RunsOn(weekday) {
			return calendar.ServiceID
		}
	}

	return ""
}
