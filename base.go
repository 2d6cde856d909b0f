package residue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/RobRuana/residue/logger"
)

// Base ties together a database handle, its naming convention and the models
// declared against it. Every model registers with exactly one base, so one
// metadata/naming-convention pair owns each table. Create a Base once at
// startup via Open and keep it for the process lifetime.
type Base struct {
	db     *gorm.DB
	namer  Namer
	log    logger.Logger
	ctxKey *sessionKey
	cache  *sync.Map

	mu     sync.RWMutex
	models map[string]interface{}
	tables []string
}

// sessionKey instances are compared by pointer identity, giving each base a
// private context key. The padding byte keeps the struct from being
// zero-sized: zero-size allocations all share one address, which would make
// every base's key compare equal and let bases observe each other's sessions.
type sessionKey struct{ _ byte }

type options struct {
	convention Convention
	log        logger.Logger
}

// Option customizes Open beyond what Config carries.
type Option func(*options)

// WithConvention overrides the naming convention attached to the base.
func WithConvention(c Convention) Option {
	return func(o *options) { o.convention = c }
}

// WithLogger overrides the logger used by the base and the underlying ORM.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// Open validates cfg, connects to the configured database and returns a Base
// with the naming convention installed as the ORM's naming strategy.
// Malformed configuration fails with an error wrapping ErrConfig before any
// connection is attempted; driver failures are surfaced unchanged.
func Open(cfg Config, opts ...Option) (*Base, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log := o.log
	if log == nil {
		var err error
		if cfg.Logger.LogType != "" {
			log, err = logger.New(&cfg.Logger)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrConfig, err)
			}
		} else {
			log = logger.NewConsoleLogger(logger.LogLevelWarning)
		}
	}

	namer := Namer{
		TablePrefix:   cfg.TablePrefix,
		SingularTable: cfg.SingularTable,
		Convention:    o.convention,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverMySQL:
		dialector = mysql.Open(cfg.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", ErrConfig, cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NamingStrategy: namer,
		Logger:         newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	if err := applyPoolSettings(db, cfg); err != nil {
		return nil, err
	}

	return &Base{
		db:     db,
		namer:  namer,
		log:    log,
		ctxKey: &sessionKey{},
		cache:  &sync.Map{},
		models: make(map[string]interface{}),
	}, nil
}

func applyPoolSettings(db *gorm.DB, cfg Config) error {
	if cfg.MaxOpenConns == 0 && cfg.MaxIdleConns == 0 &&
		cfg.ConnMaxLifetime == 0 && cfg.ConnMaxIdleTime == 0 {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get raw DB connection: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)
	}
	return nil
}

// DB exposes the underlying gorm handle.
func (b *Base) DB() *gorm.DB {
	return b.db
}

// Namer returns the naming convention attached to this base.
func (b *Base) Namer() Namer {
	return b.namer
}

// Register declares models against this base. Schemas are parsed eagerly so
// invalid model definitions fail here rather than at first query. Registering
// the same model twice is a no-op.
func (b *Base) Register(models ...interface{}) error {
	for _, model := range models {
		s, err := schema.Parse(model, b.cache, b.namer)
		if err != nil {
			return fmt.Errorf("failed to parse model schema: %w", err)
		}

		b.mu.Lock()
		if _, ok := b.models[s.Table]; !ok {
			b.models[s.Table] = model
			b.tables = append(b.tables, s.Table)
		}
		b.mu.Unlock()
	}
	return nil
}

// Models returns the registered models in registration order.
func (b *Base) Models() []interface{} {
	b.mu.RLock()
	defer b.mu.RUnlock()

	models := make([]interface{}, 0, len(b.tables))
	for _, table := range b.tables {
		models = append(models, b.models[table])
	}
	return models
}

// ModelForTable returns the model registered for the given table name.
func (b *Base) ModelForTable(table string) (interface{}, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	model, ok := b.models[table]
	return model, ok
}

// AutoMigrate migrates the schema for every registered model.
func (b *Base) AutoMigrate(ctx context.Context) error {
	models := b.Models()
	if len(models) == 0 {
		return nil
	}
	if err := b.db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	b.log.Info("Migrated schema for ", len(models), " registered models")
	return nil
}

// Close closes the underlying database connection.
func (b *Base) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
