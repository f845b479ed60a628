// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
)

// Read loads the document at path, choosing the format from its
// extension.
func Read(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Write stores doc at path, choosing the format from its extension.
// The document is written to a uniquely named temporary file beside
// path and renamed into place, so readers never observe a partial
// snapshot and concurrent writers never share a temporary file. The
// last rename wins. The parent directory must already exist.
func Write(path string, doc *Document) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if doc.Version == 0 {
		doc.Version = Version
	}
	data, err := Encode(doc, format)
	if err != nil {
		return err
	}

	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary snapshot file: %w", err)
	}
	temporaryPath := file.Name()

	// Chmod, write, sync, close. If any step fails, remove the temporary
	// file and report the first error.
	if err := file.Chmod(0644); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("setting snapshot file mode: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary snapshot file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary snapshot file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary snapshot file: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming snapshot file into place: %w", err)
	}

	parentDirectory, err := os.Open(filepath.Dir(path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}
	return nil
}
