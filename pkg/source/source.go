// Package source loads flight schedules from where they are stored.
//
// A dataset argument is either a path to a CSV file ([local.Source]) or a
// MongoDB connection string ([mongo.Source]). [Open] picks the backend from
// the argument:
//
//	src, err := source.Open("mongodb://localhost:27017", source.Options{})
//	flights, err := src.Load(ctx)
//
// [local.Source]: github.com/matzehuels/routefinder/pkg/source/local.Source
// [mongo.Source]: github.com/matzehuels/routefinder/pkg/source/mongo.Source
package source

import (
	"context"
	"strings"

	"github.com/matzehuels/routefinder/pkg/flight"
	"github.com/matzehuels/routefinder/pkg/source/local"
	"github.com/matzehuels/routefinder/pkg/source/mongo"
)

// Source loads a complete flight schedule.
type Source interface {
	// Name identifies the dataset in logs, without credentials.
	Name() string

	// Load reads every flight.
	Load(ctx context.Context) ([]flight.Flight, error)
}

// Options configures backends that need more than the dataset argument.
type Options struct {
	// Database and Collection locate the flights in MongoDB. Empty values
	// use the mongo package defaults.
	Database   string
	Collection string
}

// IsMongoURI reports whether dataset names a MongoDB deployment.
func IsMongoURI(dataset string) bool {
	return strings.HasPrefix(dataset, "mongodb://") || strings.HasPrefix(dataset, "mongodb+srv://")
}

// Open returns the source for a dataset argument.
func Open(dataset string, opts Options) (Source, error) {
	if IsMongoURI(dataset) {
		src, err := mongo.New(mongo.Options{
			URI:        dataset,
			Database:   opts.Database,
			Collection: opts.Collection,
		})
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return local.New(dataset), nil
}
