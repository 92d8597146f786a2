package staticdata

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	logg "github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
)

// Store serves the bundled reference dataset when no external database is
// configured. Files are read from the data directory on first use and
// memoized; the response shapes are identical to the database-backed path.
type Store struct {
	dataDir string
	log     logg.Logger

	mu        sync.Mutex
	trucks    []Truck
	guides    []RepairGuide
	locations []ServiceLocation
	manuals   []ManualEntry
	schema    json.RawMessage
}

func New(dataDir string) *Store {
	return &Store{
		dataDir: dataDir,
		log:     logg.New("staticdata"),
	}
}

func (s *Store) loadJSON(name string, dest any) error {
	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		return s.log.Function("loadJSON").Err("failed to read dataset file", err, "file", name)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return s.log.Function("loadJSON").Err("failed to parse dataset file", err, "file", name)
	}
	return nil
}

func (s *Store) ensureTrucks() ([]Truck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.trucks != nil {
		return s.trucks, nil
	}

	var trucks []Truck
	if err := s.loadJSON("truck_dataset.json", &trucks); err != nil {
		return nil, err
	}
	for i := range trucks {
		if trucks[i].ID == "" {
			trucks[i].ID = staticTruckID(trucks[i])
		}
	}

	s.trucks = trucks
	return trucks, nil
}

// staticTruckID derives a stable identifier so static and database modes
// both expose an id field.
func staticTruckID(t Truck) string {
	slug := strings.ToLower(t.Make + "-" + t.Model)
	slug = strings.ReplaceAll(slug, " ", "-")
	return slug
}

// SearchTrucks filters by case-insensitive substring on make and model
// and by production-year coverage. An empty filter set returns everything.
func (s *Store) SearchTrucks(makeFilter, modelFilter string, year int) ([]Truck, error) {
	trucks, err := s.ensureTrucks()
	if err != nil {
		return nil, err
	}

	makeFilter = strings.ToLower(makeFilter)
	modelFilter = strings.ToLower(modelFilter)

	matched := []Truck{}
	for _, truck := range trucks {
		if makeFilter != "" && !strings.Contains(strings.ToLower(truck.Make), makeFilter) {
			continue
		}
		if modelFilter != "" && !strings.Contains(strings.ToLower(truck.Model), modelFilter) {
			continue
		}
		if !truck.InYear(year) {
			continue
		}
		matched = append(matched, truck)
	}

	return matched, nil
}

func (s *Store) TruckByID(id string) (*Truck, error) {
	trucks, err := s.ensureTrucks()
	if err != nil {
		return nil, err
	}

	for i := range trucks {
		if trucks[i].ID == id {
			truck := trucks[i]
			return &truck, nil
		}
	}

	return nil, nil
}

// Makes lists distinct manufacturers sorted alphabetically.
func (s *Store) Makes() ([]string, error) {
	trucks, err := s.ensureTrucks()
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	makes := []string{}
	for _, truck := range trucks {
		if !seen[truck.Make] {
			seen[truck.Make] = true
			makes = append(makes, truck.Make)
		}
	}
	sort.Strings(makes)

	return makes, nil
}

// CommonIssues aggregates known issues for the matching make/model.
func (s *Store) CommonIssues(makeFilter, modelFilter string) ([]string, error) {
	trucks, err := s.SearchTrucks(makeFilter, modelFilter, 0)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	issues := []string{}
	for _, truck := range trucks {
		for _, issue := range truck.CommonIssues {
			if !seen[issue] {
				seen[issue] = true
				issues = append(issues, issue)
			}
		}
	}

	return issues, nil
}

func (s *Store) Guides(category string) ([]RepairGuide, error) {
	s.mu.Lock()
	if s.guides == nil {
		var guides []RepairGuide
		if err := s.loadJSON("repair_guides.json", &guides); err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.guides = guides
	}
	guides := s.guides
	s.mu.Unlock()

	if category == "" {
		return guides, nil
	}

	category = strings.ToLower(category)
	matched := []RepairGuide{}
	for _, guide := range guides {
		if strings.ToLower(guide.Category) == category {
			matched = append(matched, guide)
		}
	}

	return matched, nil
}

func (s *Store) GuideByID(id string) (*RepairGuide, error) {
	guides, err := s.Guides("")
	if err != nil {
		return nil, err
	}

	for i := range guides {
		if guides[i].ID == id {
			guide := guides[i]
			return &guide, nil
		}
	}

	return nil, nil
}

func (s *Store) Locations(state string) ([]ServiceLocation, error) {
	s.mu.Lock()
	if s.locations == nil {
		var locations []ServiceLocation
		if err := s.loadJSON("service_locations.json", &locations); err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.locations = locations
	}
	locations := s.locations
	s.mu.Unlock()

	if state == "" {
		return locations, nil
	}

	state = strings.ToLower(state)
	matched := []ServiceLocation{}
	for _, loc := range locations {
		if strings.ToLower(loc.State) == state {
			matched = append(matched, loc)
		}
	}

	return matched, nil
}

// Schema returns the raw truck schema document.
func (s *Store) Schema() (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schema != nil {
		return s.schema, nil
	}

	data, err := os.ReadFile(filepath.Join(s.dataDir, "truck_schema.json"))
	if err != nil {
		return nil, s.log.Function("Schema").Err("failed to read schema", err)
	}

	s.schema = json.RawMessage(data)
	return s.schema, nil
}

// Manuals parses the repair manuals CSV. Header row is required; rows
// with a malformed page range are skipped rather than failing the load.
func (s *Store) Manuals() ([]ManualEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.manuals != nil {
		return s.manuals, nil
	}

	file, err := os.Open(filepath.Join(s.dataDir, "repair_manuals.csv"))
	if err != nil {
		return nil, s.log.Function("Manuals").Err("failed to open manuals file", err)
	}
	defer file.Close()

	entries, err := parseManualsCSV(file)
	if err != nil {
		return nil, s.log.Function("Manuals").Err("failed to parse manuals file", err)
	}

	s.manuals = entries
	return entries, nil
}

func parseManualsCSV(r io.Reader) ([]ManualEntry, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err != nil {
		return nil, err
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	entries := []ManualEntry{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		pageFrom, _ := strconv.Atoi(field(record, "page_from"))
		pageTo, _ := strconv.Atoi(field(record, "page_to"))

		entries = append(entries, ManualEntry{
			Make:     field(record, "make"),
			Model:    field(record, "model"),
			Title:    field(record, "title"),
			Section:  field(record, "section"),
			PageFrom: pageFrom,
			PageTo:   pageTo,
			URL:      field(record, "url"),
		})
	}

	return entries, nil
}
