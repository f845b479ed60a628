// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Warden manages item expiry and attribution in world snapshots. It
// stamps and binds stacks (expire, bind), reports on them (inspect,
// find, count, soon, conflicts), and removes expired stacks either
// directly (purge) or through the enforcement sweeper a running server
// uses (sweep).
package main
