// Package fixtures ships the demo dataset loaded by "taskctl seed".
package fixtures

import _ "embed"

//go:embed seed.yaml
var Seed []byte
