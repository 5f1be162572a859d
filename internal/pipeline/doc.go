// Package pipeline chains transforms into named, declarative runs.
//
// A Definition lists steps by op name; the Runner resolves each op in its
// Registry, checks every step's parameters up front, and then applies the
// steps in order. Each step is traced as an OpenTelemetry span and
// recorded in the factorframe.step.* metrics.
//
// Built-in ops:
//
//	percentile_rank  zscore  row_mean
//	rolling_max      rolling_std
//	pct_change       shift   mask_between
package pipeline
