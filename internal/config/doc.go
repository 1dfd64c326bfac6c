// Package config loads the run configuration of a pipeline.
//
// A configuration is a tree of named values. It can be written in HCL or
// YAML, split across several files in a directory, and adjusted from the
// command line with `path=value` overrides:
//
//	mlgridgo run --config conf/ mode=inference model.n_estimators=50
//
// Override values are parsed as HCL expressions, so `50` is a number,
// `["a","b"]` is a list and a bare word such as `inference` is a string.
package config
