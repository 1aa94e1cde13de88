// Package console implements the serial console device of the rvsh
// simulated machine: an output port that forwards bytes to a sink and
// an input port backed by a thread-safe byte queue.
//
// The queue is fed either by a background reader polling the real
// terminal (interactive mode) or by a cycle-indexed playback script
// replayed from the bus heartbeat (playback mode). Playback requires
// tracing to be enabled in the kernel, since heartbeats only fire on
// traced steps.
package console
