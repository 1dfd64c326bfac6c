// Package driver turns transform modules into an executable dataflow.
//
// Every active function becomes a node named by its base name, and its
// inputs are wired to the nodes of the same name. Inputs no node provides
// are resolved at execution time from the runtime inputs, then the
// configuration, then the declared default.
//
// Which functions are active is decided once, at Build, by evaluating their
// conditions against the configuration. Two active functions may not share a
// base name; that is how variants such as X__training and X__inference
// provide the same node under different configurations.
package driver
