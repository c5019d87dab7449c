package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

// SeedFiles holds the default fixtures and the JSON schema they must satisfy.
//
//go:embed seed/*.json
var SeedFiles embed.FS
