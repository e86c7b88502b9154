package mock

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/spendwise/backend/internal/infra/db"
	"github.com/spendwise/backend/internal/integration/persistence/model"
)

// Db is the scenario database: the production schema, migrated the same
// way the API migrates it, on in-memory SQLite.
type Db struct {
	database *db.Database
	tables   map[string]any
}

// NewDb opens and migrates a fresh database.
func NewDb() *Db {
	database, err := db.NewSQLiteConnection(":memory:")
	if err != nil {
		panic(fmt.Sprintf("open test database: %v", err))
	}
	if err := database.Migrate(); err != nil {
		panic(fmt.Sprintf("migrate test database: %v", err))
	}
	return &Db{
		database: database,
		tables: map[string]any{
			model.ExpenseModel{}.TableName():    &model.ExpenseModel{},
			model.ProfileModel{}.TableName():    &model.ProfileModel{},
			model.EmailQueueModel{}.TableName(): &model.EmailQueueModel{},
		},
	}
}

// Conn is handed to the injector and used by database steps.
func (d *Db) Conn() *gorm.DB {
	return d.database.DB()
}

// Model returns a pointer to the model stored in table.
func (d *Db) Model(table string) (any, bool) {
	m, ok := d.tables[table]
	return m, ok
}

// Truncate deletes every row, leaving the schema in place.
func (d *Db) Truncate() error {
	all := d.Conn().Session(&gorm.Session{AllowGlobalUpdate: true})
	for table, m := range d.tables {
		if err := all.Delete(m).Error; err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the connection; the database is gone afterwards.
func (d *Db) Close() {
	_ = d.database.Close()
}
