// Package mongo loads flight schedules from a MongoDB collection.
//
// Each document holds one flight with the dataset column names as fields.
// Timestamps are BSON dates:
//
//	{
//	    "flight_no": "ZH214",
//	    "origin": "WIW",
//	    "destination": "RFZ",
//	    "departure": ISODate("2021-09-01T23:20:00Z"),
//	    "arrival": ISODate("2021-09-02T03:50:00Z"),
//	    "base_price": 168.0,
//	    "bag_price": 12.0,
//	    "bags_allowed": 1
//	}
//
// Connection and network failures are retried with backoff; malformed
// documents fail the load with an INVALID_FORMAT error.
package mongo

import (
	"context"
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/routefinder/pkg/buildinfo"
	"github.com/matzehuels/routefinder/pkg/cache"
	rferrors "github.com/matzehuels/routefinder/pkg/errors"
	"github.com/matzehuels/routefinder/pkg/flight"
)

// Defaults for [Options].
const (
	DefaultDatabase       = "routefinder"
	DefaultCollection     = "flights"
	DefaultConnectTimeout = 10 * time.Second
)

// Options configures a [Source].
type Options struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
}

// Source reads flights from one collection. Every Load opens and closes its
// own client.
type Source struct {
	opts Options
}

// New validates opts and returns a source. It does not connect.
func New(opts Options) (*Source, error) {
	if opts.URI == "" {
		return nil, rferrors.New(rferrors.ErrCodeInvalidInput, "mongo URI cannot be empty")
	}
	if opts.Database == "" {
		opts.Database = DefaultDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	return &Source{opts: opts}, nil
}

// Name returns the URI with any password redacted, plus the collection.
func (s *Source) Name() string {
	host := "mongodb"
	if u, err := url.Parse(s.opts.URI); err == nil {
		host = u.Redacted()
	}
	return host + " " + s.opts.Database + "." + s.opts.Collection
}

// Load fetches every document of the collection, ordered by departure.
func (s *Source) Load(ctx context.Context) ([]flight.Flight, error) {
	var docs []flightDoc
	err := cache.RetryWithBackoff(ctx, func() error {
		var err error
		docs, err = s.fetch(ctx)
		if err != nil && (driver.IsNetworkError(err) || driver.IsTimeout(err)) {
			return cache.Retryable(err)
		}
		return err
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, rferrors.Wrap(rferrors.ErrCodeNetwork, err, "load flights from %s", s.Name())
	}

	flights := make([]flight.Flight, len(docs))
	for i, d := range docs {
		f, err := d.toFlight()
		if err != nil {
			return nil, rferrors.Wrap(rferrors.ErrCodeInvalidFormat, err, "document %d", i)
		}
		flights[i] = f
	}
	return flights, nil
}

func (s *Source) fetch(ctx context.Context) ([]flightDoc, error) {
	connectCtx, cancel := context.WithTimeout(ctx, s.opts.ConnectTimeout)
	defer cancel()

	client, err := driver.Connect(connectCtx, options.Client().
		ApplyURI(s.opts.URI).
		SetAppName(buildinfo.UserAgent()))
	if err != nil {
		return nil, err
	}
	defer client.Disconnect(context.WithoutCancel(ctx))

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, err
	}

	coll := client.Database(s.opts.Database).Collection(s.opts.Collection)
	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "departure", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []flightDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
