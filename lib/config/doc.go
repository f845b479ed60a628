// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for warden.
//
// Configuration is loaded from a single file specified by either the
// WARDEN_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. Values missing from the file keep
// their [Default].
//
// The snapshot path is the only field subject to variable expansion:
// ${HOME} and ${VAR:-default} patterns are expanded after loading. No
// environment variable overrides any other value.
//
// Key exports:
//
//   - [Config] -- namespace, tick rate, sweep timing, annotation
//     format, container types, material extensions, logging
//   - [Default] -- returns a Config with built-in defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - helpers converting sections to the types other packages take:
//     [Config.TickInterval], [Config.Catalog], [Config.ContainerTypes],
//     [Config.AnnotationFormat], [Config.LogLevel]
package config
