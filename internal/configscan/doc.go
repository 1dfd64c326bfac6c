// Package configscan reports which configuration a set of transform
// functions depends on, without running any of them.
//
// FindConfigurations walks a module's functions in declaration order and,
// for every config-membership condition, records the keys it references and
// the literal values bound at its declaration site. A condition whose
// bound-value scope cannot be read fails the whole scan: silently skipping it
// would under-report the configuration surface the scan exists to expose.
package configscan
