// Command migrate prepares the configured store: SQL tables through
// gormigrate, Mongo lookup indexes.
package main

import (
	"context"
	"flag"
	"fmt"

	"bioserver/config"
	"bioserver/dao"
	"bioserver/dao/query"
	"bioserver/logutils"
	"bioserver/model"
	"bioserver/orm"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", config.Path(), "path to the YAML config file")
	rollback := flag.Bool("rollback", false, "roll back the last SQL migration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logutils.Log.Fatal("load config: ", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.Timeout)
	defer cancel()

	if cfg.Store.Driver == config.DriverMongo {
		if err := migrateMongo(ctx, cfg.Store); err != nil {
			logutils.Log.Fatal(err)
		}
		return
	}

	db, err := orm.Open(cfg.Store)
	if err != nil {
		logutils.Log.Fatal(err)
	}
	defer func() { _ = orm.Close(db) }()

	m := newMigrator(ctx, db)
	if *rollback {
		err = m.RollbackLast()
	} else {
		err = m.Migrate()
	}
	if err != nil {
		logutils.Log.Fatal(err)
	}
	logutils.Log.Info("Migration did run successfully")
}

func migrateMongo(ctx context.Context, cfg config.StoreConfig) error {
	client, db, err := dao.OpenMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	return query.NewMongo(db).Migrate(ctx)
}

var tables = []string{
	model.CollectionBioDesigns,
	model.CollectionParts,
	model.CollectionAssemblies,
	model.CollectionSequences,
	model.CollectionAnnotations,
	model.CollectionModules,
	model.CollectionParameters,
	model.CollectionFeatures,
}

func newMigrator(ctx context.Context, db *gorm.DB) *gormigrate.Gormigrate {
	return gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			// create every resource table
			ID: "202610190001",
			Migrate: func(tx *gorm.DB) error {
				q, err := query.NewSQL(tx)
				if err != nil {
					return err
				}
				return q.Migrate(ctx)
			},
			Rollback: func(tx *gorm.DB) error {
				for _, name := range tables {
					if err := tx.Migrator().DropTable(name); err != nil {
						return fmt.Errorf("drop %s: %w", name, err)
					}
				}
				return nil
			},
		},
	})
}
