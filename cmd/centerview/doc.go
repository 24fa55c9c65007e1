// Package main hosts the centerview CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into review
// session operations: scanning a root, inspecting and marking records,
// applying pending label changes as filesystem moves, and browsing apply
// history. It centralizes configuration resolution, root discovery, and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
