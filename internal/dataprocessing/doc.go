// Package dataprocessing loads tables from CSV, Excel and Arrow files.
//
// Files are expected in wide layout: a header row of column names followed
// by one row per observation. An optional index column (usually a date)
// supplies row labels and is not part of the numeric table.
//
//	ds, err := dataprocessing.LoadFile("prices.xlsx", dataprocessing.ParseOptions{
//	    IndexColumn: "date",
//	})
//
// Cells matching one of the missing tokens (case-insensitive, after
// trimming) become missing cells. Any other cell that does not parse as a
// number fails the load with a Parsing error that names the line and
// column.
package dataprocessing
