package config

import (
	"embed"
	"io/fs"
)

//go:embed defaults/*
var embeddedDefaults embed.FS

// EmbeddedFS returns the bundled default configuration, suitable for Load.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedDefaults, "defaults")
	if err != nil {
		// the embed directive guarantees the subpath exists
		panic(err)
	}
	return sub
}
