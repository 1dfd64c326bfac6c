// Package registry provides the central "glue" for the module system.
//
// Every pipeline package under modules/ implements Module and declares its
// transform functions into a named transform.Module of the Registry. The
// application then selects modules by name to build a driver, or hands them
// to the configuration extractor.
//
// During application startup, the registry is populated and then validated
// so that malformed declarations fail before any data is touched.
package registry
