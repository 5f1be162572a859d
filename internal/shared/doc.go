// Package shared holds helpers used across packages that belong to no
// single layer.
//
// The testutil subpackage provides log capture for slog-based components
// and compact builders and assertions for frame tables:
//
//	tbl := testutil.Table(t,
//	    testutil.Col("a", 1, nil, 3),
//	    testutil.Col("b", 4, 5, 6),
//	)
//	testutil.AssertColumn(t, out, "a", 1e-12, 0.5, nil, 1)
//
// nil stands for a missing cell. Nothing here may import domain packages
// other than frame.
package shared
