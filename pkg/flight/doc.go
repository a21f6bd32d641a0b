// Package flight defines the scheduled flight leg that every other
// routefinder package works with.
//
// A [Flight] is immutable once constructed. Timestamps are wall-clock times
// without a zone, parsed and rendered with [TimeLayout]
// ("YYYY-MM-DDTHH:MM:SS"). The JSON form uses the dataset column names:
//
//	{
//	    "flight_no": "ZH214",
//	    "origin": "WIW",
//	    "destination": "RFZ",
//	    "departure": "2021-09-01T23:20:00",
//	    "arrival": "2021-09-02T03:50:00",
//	    "base_price": 168.0,
//	    "bag_price": 12.0,
//	    "bags_allowed": 2
//	}
//
// Callers must supply flights whose Departure precedes Arrival; the graph
// builder does not reject inverted legs.
package flight
