// Package exporter writes frame datasets to CSV, Excel and Arrow files.
//
// CSV output keeps the wide layout read by dataprocessing: an optional
// index column first, then one column per table column. Missing cells are
// written as WriteOptions.MissingToken. A UTF-8 BOM can be prefixed for
// Excel.
//
//	err := exporter.SaveFile("ranks.csv", ds, exporter.WriteOptions{BOMPrefix: true})
package exporter
