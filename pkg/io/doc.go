// Package io reads flight datasets and writes route lists.
//
// # Dataset Format
//
// A dataset is a comma separated file with one header line and one flight
// per line:
//
//	flight_no,origin,destination,departure,arrival,base_price,bag_price,bags_allowed
//	ZH214,WIW,RFZ,2021-09-01T23:20:00,2021-09-02T03:50:00,168.0,12.0,1
//
// Fields are never quoted. Blank lines are skipped and whitespace around
// fields is trimmed. Any other deviation (wrong field count, unparsable
// timestamp or number, negative price or bag count) fails the whole read
// with an [errors.ErrCodeInvalidFormat] error naming the line.
//
// Use [ImportFlights] to read a file path, or [ReadFlights] to read from any
// io.Reader.
//
// # Route Format
//
// [WriteRoutesJSON] writes a JSON array with an indent of four spaces. Each
// element holds the flights of the itinerary and its summary:
//
//	[
//	    {
//	        "flights": [{"flight_no": "ZH214", "origin": "WIW", ...}],
//	        "origin": "WIW",
//	        "destination": "RFZ",
//	        "bags_allowed": 1,
//	        "bags_count": 1,
//	        "total_price": 180,
//	        "travel_time": "4:30:00"
//	    }
//	]
//
// The travel time is rendered by [flight.FormatDuration]. [ReadRoutesJSON]
// parses the same format, so cached results can be replayed without a
// travel graph.
//
// [errors.ErrCodeInvalidFormat]: github.com/matzehuels/routefinder/pkg/errors.ErrCodeInvalidFormat
// [flight.FormatDuration]: github.com/matzehuels/routefinder/pkg/flight.FormatDuration
package io
