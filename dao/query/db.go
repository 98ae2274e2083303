package query

import (
	"context"
	"fmt"

	"bioserver/config"
	"bioserver/dao"
	"bioserver/logutils"
	"bioserver/model"
	"bioserver/orm"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Query groups one typed collection per stored resource.
type Query struct {
	BioDesigns  dao.Collection[model.BioDesign]
	Parts       dao.Collection[model.Part]
	Assemblies  dao.Collection[model.Assembly]
	Sequences   dao.Collection[model.Sequence]
	Annotations dao.Collection[model.Annotation]
	Modules     dao.Collection[model.Module]
	Parameters  dao.Collection[model.Parameter]
	Features    dao.Collection[model.Feature]
}

// InitDB opens the store selected by cfg.Driver. The returned func releases it.
func InitDB(ctx context.Context, cfg config.StoreConfig) (*Query, func() error, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		client, db, err := dao.OpenMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, err
		}
		closer := func() error { return client.Disconnect(context.Background()) }
		return NewMongo(db), closer, nil
	case config.DriverPostgres, config.DriverSQLite:
		db, err := orm.Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		q, err := NewSQL(db)
		if err != nil {
			_ = orm.Close(db)
			return nil, nil, err
		}
		return q, func() error { return orm.Close(db) }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func NewMongo(db *mongo.Database) *Query {
	return &Query{
		BioDesigns:  dao.NewMongoCollection[model.BioDesign](db, model.CollectionBioDesigns),
		Parts:       dao.NewMongoCollection[model.Part](db, model.CollectionParts),
		Assemblies:  dao.NewMongoCollection[model.Assembly](db, model.CollectionAssemblies),
		Sequences:   dao.NewMongoCollection[model.Sequence](db, model.CollectionSequences),
		Annotations: dao.NewMongoCollection[model.Annotation](db, model.CollectionAnnotations),
		Modules:     dao.NewMongoCollection[model.Module](db, model.CollectionModules),
		Parameters:  dao.NewMongoCollection[model.Parameter](db, model.CollectionParameters),
		Features:    dao.NewMongoCollection[model.Feature](db, model.CollectionFeatures),
	}
}

// NewSQL builds gorm-backed collections. Tables are not migrated; see Migrate.
func NewSQL(db *gorm.DB) (*Query, error) {
	q := &Query{}
	var err error
	if q.BioDesigns, err = sqlCollection[model.BioDesign](db, model.CollectionBioDesigns); err != nil {
		return nil, err
	}
	if q.Parts, err = sqlCollection[model.Part](db, model.CollectionParts); err != nil {
		return nil, err
	}
	if q.Assemblies, err = sqlCollection[model.Assembly](db, model.CollectionAssemblies); err != nil {
		return nil, err
	}
	if q.Sequences, err = sqlCollection[model.Sequence](db, model.CollectionSequences); err != nil {
		return nil, err
	}
	if q.Annotations, err = sqlCollection[model.Annotation](db, model.CollectionAnnotations); err != nil {
		return nil, err
	}
	if q.Modules, err = sqlCollection[model.Module](db, model.CollectionModules); err != nil {
		return nil, err
	}
	if q.Parameters, err = sqlCollection[model.Parameter](db, model.CollectionParameters); err != nil {
		return nil, err
	}
	if q.Features, err = sqlCollection[model.Feature](db, model.CollectionFeatures); err != nil {
		return nil, err
	}
	return q, nil
}

func sqlCollection[T any](db *gorm.DB, name string) (dao.Collection[T], error) {
	c, err := orm.NewCollection[T](db, name)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type migrator interface {
	Migrate() error
}

type indexer interface {
	EnsureIndexes(ctx context.Context, keys ...string) error
}

// indexKeys lists the lookup fields indexed in Mongo, per collection.
var indexKeys = map[string][]string{
	model.CollectionBioDesigns:  {"name", "userId"},
	model.CollectionParts:       {"name", "bioDesignId"},
	model.CollectionAssemblies:  {"subpartId"},
	model.CollectionSequences:   {"name", "partId"},
	model.CollectionAnnotations: {"sequenceId"},
	model.CollectionModules:     {"role", "bioDesignId"},
	model.CollectionParameters:  {"bioDesignId"},
	model.CollectionFeatures:    {"annotationId", "moduleId"},
}

// Migrate prepares every collection: SQL tables are created or altered,
// Mongo collections get their lookup indexes.
func (q *Query) Migrate(ctx context.Context) error {
	for _, c := range q.all() {
		switch s := c.(type) {
		case migrator:
			if err := s.Migrate(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		case indexer:
			if err := s.EnsureIndexes(ctx, indexKeys[c.Name()]...); err != nil {
				return err
			}
		}
	}
	logutils.Log.Info("store migrated")
	return nil
}

type named interface {
	Name() string
}

func (q *Query) all() []named {
	return []named{
		q.BioDesigns, q.Parts, q.Assemblies, q.Sequences,
		q.Annotations, q.Modules, q.Parameters, q.Features,
	}
}
