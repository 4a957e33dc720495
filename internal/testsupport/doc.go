// Package testsupport holds shared fixtures for agentflow tests: a recording
// fake editor backend and helpers for building and writing configs.
package testsupport
