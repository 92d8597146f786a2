package database

import (
	"context"
	"errors"
	"regexp"

	"github.com/Margarita215729/truck-repair-assistant-sub001/config"
	logg "github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is the document adapter. Connections are opened and closed
// per request; there is no pooled client held across calls.
type MongoStore struct {
	uri      string
	database string
	log      logg.Logger
}

func NewMongoStore(cfg config.Config) *MongoStore {
	return &MongoStore{
		uri:      cfg.MongoURI,
		database: cfg.MongoDatabase,
		log:      logg.New("mongoStore"),
	}
}

// withClient runs fn against a freshly connected client and disconnects
// afterwards regardless of outcome.
func (s *MongoStore) withClient(ctx context.Context, fn func(db *mongo.Database) error) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return s.log.Function("withClient").Err("failed to connect to mongo", err)
	}
	defer func() {
		_ = client.Disconnect(ctx)
	}()

	return fn(client.Database(s.database))
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.withClient(ctx, func(db *mongo.Database) error {
		return db.Client().Ping(ctx, nil)
	})
}

func containsRegex(value string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}

func (s *MongoStore) GetTrucks(ctx context.Context, makeFilter, modelFilter string, year int) ([]Truck, error) {
	log := s.log.Function("GetTrucks")

	filter := bson.M{}
	if makeFilter != "" {
		filter["make"] = containsRegex(makeFilter)
	}
	if modelFilter != "" {
		filter["model"] = containsRegex(modelFilter)
	}
	if year != 0 {
		filter["year_start"] = bson.M{"$lte": year}
		filter["$or"] = bson.A{
			bson.M{"year_end": 0},
			bson.M{"year_end": bson.M{"$gte": year}},
		}
	}

	trucks := []Truck{}
	err := s.withClient(ctx, func(db *mongo.Database) error {
		cursor, err := db.Collection("trucks").Find(ctx, filter)
		if err != nil {
			return err
		}
		return cursor.All(ctx, &trucks)
	})
	if err != nil {
		return nil, log.Err("failed to query trucks", err)
	}

	return trucks, nil
}

func (s *MongoStore) GetTruckByID(ctx context.Context, id string) (*Truck, error) {
	var truck Truck
	err := s.withClient(ctx, func(db *mongo.Database) error {
		return db.Collection("trucks").FindOne(ctx, bson.M{"_id": id}).Decode(&truck)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, s.log.Function("GetTruckByID").Err("failed to get truck", err, "id", id)
	}

	return &truck, nil
}

func (s *MongoStore) UpsertTruck(ctx context.Context, truck *Truck) error {
	if truck.ID == "" {
		truck.ID = NewID()
	}

	err := s.withClient(ctx, func(db *mongo.Database) error {
		opts := options.Replace().SetUpsert(true)
		_, err := db.Collection("trucks").
			ReplaceOne(ctx, bson.M{"_id": truck.ID}, truck, opts)
		return err
	})
	if err != nil {
		return s.log.Function("UpsertTruck").Err("failed to upsert truck", err, "make", truck.Make)
	}

	return nil
}

func (s *MongoStore) GetServiceLocations(ctx context.Context, state string) ([]ServiceLocation, error) {
	log := s.log.Function("GetServiceLocations")

	filter := bson.M{}
	if state != "" {
		filter["state"] = containsRegex(state)
	}

	locations := []ServiceLocation{}
	err := s.withClient(ctx, func(db *mongo.Database) error {
		cursor, err := db.Collection("service_locations").Find(ctx, filter)
		if err != nil {
			return err
		}
		return cursor.All(ctx, &locations)
	})
	if err != nil {
		return nil, log.Err("failed to query service locations", err)
	}

	return locations, nil
}

func (s *MongoStore) UpsertServiceLocation(ctx context.Context, loc *ServiceLocation) error {
	if loc.ID == "" {
		loc.ID = NewID()
	}

	err := s.withClient(ctx, func(db *mongo.Database) error {
		opts := options.Replace().SetUpsert(true)
		_, err := db.Collection("service_locations").
			ReplaceOne(ctx, bson.M{"_id": loc.ID}, loc, opts)
		return err
	})
	if err != nil {
		return s.log.Function("UpsertServiceLocation").
			Err("failed to upsert service location", err, "name", loc.Name)
	}

	return nil
}

func (s *MongoStore) GetRepairGuides(ctx context.Context, category string) ([]RepairGuide, error) {
	log := s.log.Function("GetRepairGuides")

	filter := bson.M{}
	if category != "" {
		filter["category"] = containsRegex(category)
	}

	guides := []RepairGuide{}
	err := s.withClient(ctx, func(db *mongo.Database) error {
		cursor, err := db.Collection("repair_guides").Find(ctx, filter)
		if err != nil {
			return err
		}
		return cursor.All(ctx, &guides)
	})
	if err != nil {
		return nil, log.Err("failed to query repair guides", err)
	}

	return guides, nil
}

func (s *MongoStore) UpsertRepairGuide(ctx context.Context, guide *RepairGuide) error {
	if guide.ID == "" {
		guide.ID = NewID()
	}

	err := s.withClient(ctx, func(db *mongo.Database) error {
		opts := options.Replace().SetUpsert(true)
		_, err := db.Collection("repair_guides").
			ReplaceOne(ctx, bson.M{"_id": guide.ID}, guide, opts)
		return err
	})
	if err != nil {
		return s.log.Function("UpsertRepairGuide").
			Err("failed to upsert repair guide", err, "title", guide.Title)
	}

	return nil
}

func (s *MongoStore) CreateMaintenanceRecord(ctx context.Context, rec *MaintenanceRecord) error {
	if rec.ID == "" {
		rec.ID = NewID()
	}

	err := s.withClient(ctx, func(db *mongo.Database) error {
		_, err := db.Collection("maintenance_records").InsertOne(ctx, rec)
		return err
	})
	if err != nil {
		return s.log.Function("CreateMaintenanceRecord").
			Err("failed to insert maintenance record", err, "truckID", rec.TruckID)
	}

	return nil
}

func (s *MongoStore) GetMaintenanceRecords(ctx context.Context, truckID string) ([]MaintenanceRecord, error) {
	log := s.log.Function("GetMaintenanceRecords")

	records := []MaintenanceRecord{}
	err := s.withClient(ctx, func(db *mongo.Database) error {
		cursor, err := db.Collection("maintenance_records").
			Find(ctx, bson.M{"truck_id": truckID})
		if err != nil {
			return err
		}
		return cursor.All(ctx, &records)
	})
	if err != nil {
		return nil, log.Err("failed to query maintenance records", err, "truckID", truckID)
	}

	return records, nil
}
