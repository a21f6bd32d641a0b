package mongo

import (
	"time"

	rferrors "github.com/matzehuels/routefinder/pkg/errors"
	"github.com/matzehuels/routefinder/pkg/flight"
)

type flightDoc struct {
	FlightNo    string    `bson:"flight_no"`
	Origin      string    `bson:"origin"`
	Destination string    `bson:"destination"`
	Departure   time.Time `bson:"departure"`
	Arrival     time.Time `bson:"arrival"`
	BasePrice   float64   `bson:"base_price"`
	BagPrice    float64   `bson:"bag_price"`
	BagsAllowed int       `bson:"bags_allowed"`
}

// toFlight applies the dataset validation rules to a document.
func (d flightDoc) toFlight() (flight.Flight, error) {
	if err := rferrors.ValidateFlightNo(d.FlightNo); err != nil {
		return flight.Flight{}, err
	}
	if err := rferrors.ValidateAirportCode(d.Origin); err != nil {
		return flight.Flight{}, err
	}
	if err := rferrors.ValidateAirportCode(d.Destination); err != nil {
		return flight.Flight{}, err
	}
	if d.Departure.IsZero() || d.Arrival.IsZero() {
		return flight.Flight{}, rferrors.New(rferrors.ErrCodeInvalidFormat, "flight %s: missing departure or arrival", d.FlightNo)
	}
	if d.BasePrice < 0 || d.BagPrice < 0 || d.BagsAllowed < 0 {
		return flight.Flight{}, rferrors.New(rferrors.ErrCodeInvalidFormat, "flight %s: negative price or bag allowance", d.FlightNo)
	}
	return flight.Flight{
		FlightNo:    d.FlightNo,
		Origin:      d.Origin,
		Destination: d.Destination,
		Departure:   d.Departure.UTC(),
		Arrival:     d.Arrival.UTC(),
		BasePrice:   d.BasePrice,
		BagPrice:    d.BagPrice,
		BagsAllowed: d.BagsAllowed,
	}, nil
}
