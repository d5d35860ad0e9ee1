package db

import (
	"fmt"
	"time"

	"github.com/vestafn/vesta/internal/app/orchestrator/models"
	"github.com/vestafn/vesta/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var log = logger.NewLogger("vesta.orchestrator.db")

type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
	SslMode  bool
	Timezone string
}

// FunctionRecord is the persisted shape of a function definition. The
// location variant is flattened into columns and rebuilt on read.
type FunctionRecord struct {
	Id               string `gorm:"primary_key; not null"`
	Description      string
	AssemblyFullName string `gorm:"not null"`
	LocationKind     string `gorm:"not null"`
	AccountName      string
	ContainerPath    string
	BlobName         string
	Endpoint         string
	ShortName        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type DatabaseClient interface {
	Close() error
	Migrate() error
	UpsertFunction(definition models.FunctionDefinition) error
	ListFunctions() ([]models.FunctionDefinition, error)
	DeleteFunction(id string) error
}

type databaseClient struct {
	db *gorm.DB
}

// NewDatabaseClient creates a new database client.
func NewDatabaseClient(opts Options) (DatabaseClient, error) {
	log.Infof("connecting to database server: %s:%d", opts.Host, opts.Port)

	sslMode := "disable"
	if opts.SslMode {
		sslMode = "enable"
	}
	timezone := "UTC"
	if opts.Timezone != "" {
		timezone = opts.Timezone
	}
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s", opts.Host, opts.Port, opts.Username, opts.Password, opts.Database, sslMode, timezone)
	gormDb, err := gorm.Open(postgres.New(postgres.Config{
		DSN: dsn,
	}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &databaseClient{
		db: gormDb,
	}, nil
}

// Close closes the database connection.
func (d *databaseClient) Close() error {
	log.Infof("closing database connection")
	sqlDb, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	if err := sqlDb.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// Migrate migrates the database schema.
func (d *databaseClient) Migrate() error {
	log.Infof("migrating database schema")
	if err := d.db.AutoMigrate(
		&FunctionRecord{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// UpsertFunction persists a function definition, updating the existing row
// on conflict.
func (d *databaseClient) UpsertFunction(definition models.FunctionDefinition) error {
	record := toRecord(definition)
	if err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to upsert function: %w", err)
	}
	return nil
}

// ListFunctions retrieves all persisted function definitions.
func (d *databaseClient) ListFunctions() ([]models.FunctionDefinition, error) {
	var records []FunctionRecord
	if err := d.db.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get functions: %w", err)
	}
	definitions := make([]models.FunctionDefinition, 0, len(records))
	for _, record := range records {
		definitions = append(definitions, toDefinition(record))
	}
	return definitions, nil
}

// DeleteFunction deletes a function definition by its identifier.
func (d *databaseClient) DeleteFunction(id string) error {
	if err := d.db.Delete(&FunctionRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete function: %w", err)
	}
	return nil
}

// toRecord flattens a definition into its persisted shape.
func toRecord(definition models.FunctionDefinition) FunctionRecord {
	record := FunctionRecord{
		Id:               definition.Id(),
		Description:      definition.Description,
		AssemblyFullName: definition.AssemblyFullName,
		LocationKind:     definition.Location.Kind(),
		AccountName:      definition.Location.AccountName(),
		ShortName:        definition.Location.ShortName(),
		CreatedAt:        definition.CreatedAt,
		UpdatedAt:        definition.UpdatedAt,
	}
	switch location := definition.Location.(type) {
	case models.RemoteFunctionLocation:
		record.ContainerPath = location.ContainerPath
		record.BlobName = location.BlobName
	case models.UrlFunctionLocation:
		record.Endpoint = location.Endpoint
	}
	return record
}

// toDefinition rebuilds a definition from its persisted shape.
func toDefinition(record FunctionRecord) models.FunctionDefinition {
	var location models.FunctionLocation
	switch record.LocationKind {
	case models.LocationKindUrl:
		location = models.UrlFunctionLocation{
			Account:  record.AccountName,
			Endpoint: record.Endpoint,
			Name:     record.ShortName,
		}
	default:
		location = models.RemoteFunctionLocation{
			Account:       record.AccountName,
			ContainerPath: record.ContainerPath,
			BlobName:      record.BlobName,
		}
	}
	return models.FunctionDefinition{
		Description:      record.Description,
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
		Location:         location,
		AssemblyFullName: record.AssemblyFullName,
	}
}
