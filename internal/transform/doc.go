// Package transform implements the row-wise and window transforms over
// frame tables.
//
// Row-wise transforms (PercentileRank, ZScore, RowAverage) compute a
// statistic across the present cells of each row and skip missing cells.
// Window transforms (RollingMax, RollingStd, PctChange, Shift) work down
// each column and propagate missing cells strictly: a window that contains
// a missing cell produces a missing output.
//
// No transform modifies its input. Rows and columns are independent, so
// WithParallelism can split the work without changing the result.
package transform
