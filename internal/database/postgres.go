package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Margarita215729/truck-repair-assistant-sub001/config"
	logg "github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// ErrNotFound is returned by single-row lookups across the store adapters.
var ErrNotFound = errors.New("record not found")

// PostgresStore is the relational adapter: a bounded connection pool,
// parameterized queries, and explicit snake_case column mapping.
type PostgresStore struct {
	db  *sql.DB
	log logg.Logger
}

func NewPostgresStore(cfg config.Config) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres pool: %w", err)
	}

	db.SetMaxOpenConns(2 * runtime.NumCPU())
	db.SetMaxIdleConns(runtime.NumCPU())
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresStore{
		db:  db,
		log: logg.New("postgresStore"),
	}, nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB exposes the underlying pool for migration tooling.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// WithTransaction wraps fn in BEGIN/COMMIT, rolling back when fn returns
// an error or panics.
func (s *PostgresStore) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	log := s.log.Function("WithTransaction")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return log.Err("failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Er("failed to roll back transaction", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return log.Err("failed to commit transaction", err)
	}

	return nil
}

// ---- trucks ----

const truckColumns = "id, make, model, year_start, year_end, engines, common_issues"

func scanTruck(row interface{ Scan(...any) error }) (Truck, error) {
	var t Truck
	var yearEnd sql.NullInt64
	err := row.Scan(
		&t.ID,
		&t.Make,
		&t.Model,
		&t.YearStart,
		&yearEnd,
		pq.Array(&t.Engines),
		pq.Array(&t.CommonIssues),
	)
	if err != nil {
		return Truck{}, err
	}
	t.YearEnd = int(yearEnd.Int64)
	return t, nil
}

func (s *PostgresStore) GetTrucks(ctx context.Context, makeFilter, modelFilter string, year int) ([]Truck, error) {
	log := s.log.Function("GetTrucks")

	query := "SELECT " + truckColumns + " FROM trucks WHERE 1=1"
	args := []any{}

	if makeFilter != "" {
		args = append(args, "%"+strings.ToLower(makeFilter)+"%")
		query += fmt.Sprintf(" AND LOWER(make) LIKE $%d", len(args))
	}
	if modelFilter != "" {
		args = append(args, "%"+strings.ToLower(modelFilter)+"%")
		query += fmt.Sprintf(" AND LOWER(model) LIKE $%d", len(args))
	}
	if year != 0 {
		args = append(args, year)
		query += fmt.Sprintf(" AND year_start <= $%d AND (year_end = 0 OR year_end >= $%d)", len(args), len(args))
	}
	query += " ORDER BY make, model"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, log.Err("failed to query trucks", err)
	}
	defer rows.Close()

	trucks := []Truck{}
	for rows.Next() {
		truck, err := scanTruck(rows)
		if err != nil {
			return nil, log.Err("failed to scan truck row", err)
		}
		trucks = append(trucks, truck)
	}

	return trucks, rows.Err()
}

func (s *PostgresStore) GetTruckByID(ctx context.Context, id string) (*Truck, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+truckColumns+" FROM trucks WHERE id = $1", id)

	truck, err := scanTruck(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.log.Function("GetTruckByID").Err("failed to get truck", err, "id", id)
	}

	return &truck, nil
}

func (s *PostgresStore) UpsertTruck(ctx context.Context, truck *Truck) error {
	if truck.ID == "" {
		truck.ID = NewID()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trucks (id, make, model, year_start, year_end, engines, common_issues)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		   make = EXCLUDED.make, model = EXCLUDED.model,
		   year_start = EXCLUDED.year_start, year_end = EXCLUDED.year_end,
		   engines = EXCLUDED.engines, common_issues = EXCLUDED.common_issues`,
		truck.ID,
		truck.Make,
		truck.Model,
		truck.YearStart,
		truck.YearEnd,
		pq.Array(truck.Engines),
		pq.Array(truck.CommonIssues),
	)
	if err != nil {
		return s.log.Function("UpsertTruck").Err("failed to upsert truck", err, "make", truck.Make)
	}

	return nil
}

func (s *PostgresStore) DeleteTruck(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM trucks WHERE id = $1", id)
	if err != nil {
		return s.log.Function("DeleteTruck").Err("failed to delete truck", err, "id", id)
	}
	return nil
}

// ---- service locations ----

const locationColumns = "id, name, address, city, state, phone, latitude, longitude, services"

func scanServiceLocation(row interface{ Scan(...any) error }) (ServiceLocation, error) {
	var loc ServiceLocation
	err := row.Scan(
		&loc.ID,
		&loc.Name,
		&loc.Address,
		&loc.City,
		&loc.State,
		&loc.Phone,
		&loc.Latitude,
		&loc.Longitude,
		pq.Array(&loc.Services),
	)
	return loc, err
}

func (s *PostgresStore) GetServiceLocations(ctx context.Context, state string) ([]ServiceLocation, error) {
	log := s.log.Function("GetServiceLocations")

	query := "SELECT " + locationColumns + " FROM service_locations"
	args := []any{}
	if state != "" {
		query += " WHERE LOWER(state) = $1"
		args = append(args, strings.ToLower(state))
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, log.Err("failed to query service locations", err)
	}
	defer rows.Close()

	locations := []ServiceLocation{}
	for rows.Next() {
		loc, err := scanServiceLocation(rows)
		if err != nil {
			return nil, log.Err("failed to scan service location", err)
		}
		locations = append(locations, loc)
	}

	return locations, rows.Err()
}

func (s *PostgresStore) UpsertServiceLocation(ctx context.Context, loc *ServiceLocation) error {
	if loc.ID == "" {
		loc.ID = NewID()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO service_locations
		   (id, name, address, city, state, phone, latitude, longitude, services)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, address = EXCLUDED.address, city = EXCLUDED.city,
		   state = EXCLUDED.state, phone = EXCLUDED.phone,
		   latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
		   services = EXCLUDED.services`,
		loc.ID, loc.Name, loc.Address, loc.City, loc.State,
		loc.Phone, loc.Latitude, loc.Longitude, pq.Array(loc.Services),
	)
	if err != nil {
		return s.log.Function("UpsertServiceLocation").
			Err("failed to upsert service location", err, "name", loc.Name)
	}

	return nil
}

// ---- repair guides ----

const guideColumns = "id, title, category, truck_make, difficulty, steps, tools, video_url"

func scanRepairGuide(row interface{ Scan(...any) error }) (RepairGuide, error) {
	var g RepairGuide
	err := row.Scan(
		&g.ID,
		&g.Title,
		&g.Category,
		&g.TruckMake,
		&g.Difficulty,
		pq.Array(&g.Steps),
		pq.Array(&g.Tools),
		&g.VideoURL,
	)
	return g, err
}

func (s *PostgresStore) GetRepairGuides(ctx context.Context, category string) ([]RepairGuide, error) {
	log := s.log.Function("GetRepairGuides")

	query := "SELECT " + guideColumns + " FROM repair_guides"
	args := []any{}
	if category != "" {
		query += " WHERE LOWER(category) = $1"
		args = append(args, strings.ToLower(category))
	}
	query += " ORDER BY title"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, log.Err("failed to query repair guides", err)
	}
	defer rows.Close()

	guides := []RepairGuide{}
	for rows.Next() {
		g, err := scanRepairGuide(rows)
		if err != nil {
			return nil, log.Err("failed to scan repair guide", err)
		}
		guides = append(guides, g)
	}

	return guides, rows.Err()
}

func (s *PostgresStore) GetRepairGuideByID(ctx context.Context, id string) (*RepairGuide, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+guideColumns+" FROM repair_guides WHERE id = $1", id)

	g, err := scanRepairGuide(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.log.Function("GetRepairGuideByID").
			Err("failed to get repair guide", err, "id", id)
	}

	return &g, nil
}

func (s *PostgresStore) UpsertRepairGuide(ctx context.Context, guide *RepairGuide) error {
	if guide.ID == "" {
		guide.ID = NewID()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO repair_guides
		   (id, title, category, truck_make, difficulty, steps, tools, video_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   title = EXCLUDED.title, category = EXCLUDED.category,
		   truck_make = EXCLUDED.truck_make, difficulty = EXCLUDED.difficulty,
		   steps = EXCLUDED.steps, tools = EXCLUDED.tools,
		   video_url = EXCLUDED.video_url`,
		guide.ID, guide.Title, guide.Category, guide.TruckMake, guide.Difficulty,
		pq.Array(guide.Steps), pq.Array(guide.Tools), guide.VideoURL,
	)
	if err != nil {
		return s.log.Function("UpsertRepairGuide").
			Err("failed to upsert repair guide", err, "title", guide.Title)
	}

	return nil
}

// ---- maintenance records ----

func (s *PostgresStore) CreateMaintenanceRecord(ctx context.Context, rec *MaintenanceRecord) error {
	if rec.ID == "" {
		rec.ID = NewID()
	}

	// truck_id is a foreign key; a dangling reference surfaces as a
	// constraint violation from the driver.
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO maintenance_records
		   (id, truck_id, service_type, description, service_date, mileage, cost, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.TruckID, rec.ServiceType, rec.Description,
		rec.ServiceDate, rec.Mileage, rec.Cost, rec.Status,
	)
	if err != nil {
		return s.log.Function("CreateMaintenanceRecord").
			Err("failed to insert maintenance record", err, "truckID", rec.TruckID)
	}

	return nil
}

func (s *PostgresStore) GetMaintenanceRecords(ctx context.Context, truckID string) ([]MaintenanceRecord, error) {
	log := s.log.Function("GetMaintenanceRecords")

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, truck_id, service_type, description, service_date, mileage, cost, status
		 FROM maintenance_records WHERE truck_id = $1 ORDER BY service_date DESC`,
		truckID,
	)
	if err != nil {
		return nil, log.Err("failed to query maintenance records", err, "truckID", truckID)
	}
	defer rows.Close()

	records := []MaintenanceRecord{}
	for rows.Next() {
		var rec MaintenanceRecord
		if err := rows.Scan(
			&rec.ID, &rec.TruckID, &rec.ServiceType, &rec.Description,
			&rec.ServiceDate, &rec.Mileage, &rec.Cost, &rec.Status,
		); err != nil {
			return nil, log.Err("failed to scan maintenance record", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ---- users ----

func (s *PostgresStore) CreateUser(ctx context.Context, email, name, password string) (*User, error) {
	log := s.log.Function("CreateUser")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	user := &User{ID: NewID(), Email: email, Name: name, PasswordHash: string(hash)}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Email, user.Name, user.PasswordHash,
	)
	if err != nil {
		return nil, log.Err("failed to insert user", err, "email", email)
	}

	return user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash FROM users WHERE email = $1", email)

	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.log.Function("GetUserByEmail").Err("failed to get user", err, "email", email)
	}

	return &user, nil
}
