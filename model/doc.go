// Package model defines the error taxonomy shared by the codec packages and the
// boundary types rendered by the CLI.
//
// The report structs are the only types intended for direct JSON/YAML
// serialization by consumers. Hidden payload bytes are always projected as
// lowercase hex.
package model
