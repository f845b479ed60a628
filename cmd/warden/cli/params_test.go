// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"
	"time"
)

type SharedParams struct {
	File string `flag:"file,f" desc:"snapshot file"`
}

type exampleParams struct {
	SharedParams
	JSONOutput
	Width   int           `flag:"width" desc:"panel width" default:"60"`
	Limit   int64         `flag:"limit" desc:"result limit" default:"10"`
	Window  time.Duration `flag:"window" desc:"window" default:"1h"`
	Force   bool          `flag:"force" desc:"skip checks"`
	Kinds   []string      `flag:"kind" desc:"kinds"`
	Ignored string
}

func TestFlagsFromParams(t *testing.T) {
	var params exampleParams
	flagSet := FlagsFromParams("example", &params)

	if params.Width != 60 || params.Limit != 10 || params.Window != time.Hour {
		t.Errorf("defaults not applied: %+v", params)
	}

	err := flagSet.Parse([]string{
		"-f", "world.cbor", "--json", "--width=80", "--force",
		"--kind", "BREAD,APPLE", "--window", "30m", "rest",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if params.File != "world.cbor" {
		t.Errorf("File = %q", params.File)
	}
	if !params.OutputJSON {
		t.Error("embedded JSONOutput flag not bound")
	}
	if params.Width != 80 || !params.Force || params.Window != 30*time.Minute {
		t.Errorf("parsed params = %+v", params)
	}
	if strings.Join(params.Kinds, " ") != "BREAD APPLE" {
		t.Errorf("Kinds = %v", params.Kinds)
	}
	if flagSet.Lookup("ignored") != nil {
		t.Error("untagged field was bound")
	}
	if args := flagSet.Args(); len(args) != 1 || args[0] != "rest" {
		t.Errorf("Args() = %v", args)
	}
}

func TestBindFlags_Rejects(t *testing.T) {
	if err := BindFlags(exampleParams{}, nil); err == nil {
		t.Error("BindFlags accepted a non-pointer")
	}

	type unsupported struct {
		Ratio float32 `flag:"ratio"`
	}
	flagSet := FlagsFromParams("ok", &struct{}{})
	if err := BindFlags(&unsupported{}, flagSet); err == nil {
		t.Error("BindFlags accepted an unsupported field type")
	}

	type badDefault struct {
		Width int `flag:"width" default:"wide"`
	}
	if err := BindFlags(&badDefault{}, flagSet); err == nil {
		t.Error("BindFlags accepted an unparseable default")
	}
}
