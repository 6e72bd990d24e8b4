// Package data holds the seed fixtures compiled into the binary.
package data

import _ "embed"

//go:embed fixtures.json
var FixturesJSON []byte
