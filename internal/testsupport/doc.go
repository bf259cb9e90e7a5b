// Package testsupport holds shared fixtures for package tests: temp-dir backed
// configs, stub binaries on PATH, sized input files and history stores.
package testsupport
