package io

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	rferrors "github.com/matzehuels/routefinder/pkg/errors"
	"github.com/matzehuels/routefinder/pkg/flight"
)

// Header lists the dataset columns in order.
var Header = []string{
	"flight_no", "origin", "destination", "departure", "arrival",
	"base_price", "bag_price", "bags_allowed",
}

// ReadFlights decodes a dataset from r. The first non-blank line is the
// header and is not interpreted. ReadFlights does not close r.
func ReadFlights(r io.Reader) ([]flight.Flight, error) {
	sc := bufio.NewScanner(r)
	var (
		flights    []flight.Flight
		lineNo     int
		seenHeader bool
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !seenHeader {
			seenHeader = true
			continue
		}
		f, err := parseRecord(line)
		if err != nil {
			return nil, rferrors.Wrap(rferrors.ErrCodeInvalidFormat, err, "line %d", lineNo)
		}
		flights = append(flights, f)
	}
	if err := sc.Err(); err != nil {
		return nil, rferrors.Wrap(rferrors.ErrCodeInvalidFormat, err, "read dataset")
	}
	return flights, nil
}

func parseRecord(line string) (flight.Flight, error) {
	fields := strings.Split(line, ",")
	if len(fields) != len(Header) {
		return flight.Flight{}, rferrors.New(rferrors.ErrCodeInvalidFormat, "want %d fields, got %d", len(Header), len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	if err := rferrors.ValidateFlightNo(fields[0]); err != nil {
		return flight.Flight{}, err
	}
	for _, code := range fields[1:3] {
		if err := rferrors.ValidateAirportCode(code); err != nil {
			return flight.Flight{}, err
		}
	}

	dep, err := flight.ParseTime(fields[3])
	if err != nil {
		return flight.Flight{}, rferrors.Wrap(rferrors.ErrCodeInvalidFormat, err, "departure")
	}
	arr, err := flight.ParseTime(fields[4])
	if err != nil {
		return flight.Flight{}, rferrors.Wrap(rferrors.ErrCodeInvalidFormat, err, "arrival")
	}
	base, err := parseAmount("base_price", fields[5])
	if err != nil {
		return flight.Flight{}, err
	}
	bag, err := parseAmount("bag_price", fields[6])
	if err != nil {
		return flight.Flight{}, err
	}
	bags, err := strconv.Atoi(fields[7])
	if err != nil {
		return flight.Flight{}, rferrors.Wrap(rferrors.ErrCodeInvalidFormat, err, "bags_allowed")
	}
	if bags < 0 {
		return flight.Flight{}, rferrors.New(rferrors.ErrCodeInvalidFormat, "bags_allowed cannot be negative: %d", bags)
	}

	return flight.Flight{
		FlightNo:    fields[0],
		Origin:      fields[1],
		Destination: fields[2],
		Departure:   dep,
		Arrival:     arr,
		BasePrice:   base,
		BagPrice:    bag,
		BagsAllowed: bags,
	}, nil
}

func parseAmount(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, rferrors.Wrap(rferrors.ErrCodeInvalidFormat, err, "%s", name)
	}
	if v < 0 {
		return 0, rferrors.New(rferrors.ErrCodeInvalidFormat, "%s cannot be negative: %v", name, v)
	}
	return v, nil
}

// ImportFlights reads the dataset at path. A missing file yields an
// ErrCodeFileNotFound error; everything else is reported like [ReadFlights].
func ImportFlights(path string) ([]flight.Flight, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, rferrors.Wrap(rferrors.ErrCodeFileNotFound, err, "dataset %s", path)
		}
		return nil, rferrors.Wrap(rferrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadFlights(f)
}
