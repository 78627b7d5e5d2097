// Package liftplan carries the embedded seed catalogs shipped with
// the binaries.
package liftplan

import "embed"

// SeedFS holds the default exercise and protocol catalog YAML files.
//
//go:embed seed/exercises.yaml seed/protocols.yaml
var SeedFS embed.FS
