// Package files discovers table files for batch runs.
//
// Discovery lists the CSV, Excel and Arrow files of a directory, skipping
// Office lock files, and maps each input to its output path:
//
//	discovery := files.NewDiscovery("data")
//	inputs, err := discovery.FindTableFiles("reports")
//	for _, in := range inputs {
//	    out := files.OutputPath(in, "out", ".arrow")
//	    // ...
//	}
package files
