// Package converge turns eventually-consistent external state into bounded,
// observable outcomes.
//
// A Probe evaluates the external system once and answers three ways: ready,
// not ready, or the probe itself failed. Poll evaluates a probe under a fixed
// attempt/interval budget. The Driver runs named checkpoints through Poll,
// taking at most one remedial action between polling windows.
package converge
