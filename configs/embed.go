// Package configs embeds the configuration templates written by
// `wordtracker config init`.
//
// Configuration hierarchy (see internal/config Load):
//  1. defaults (config.NewConfig)
//  2. user config (~/.config/wordtracker/config.yaml)
//  3. project config (.wordtracker.yaml)
//  4. WORDTRACKER_* environment variables
package configs

import _ "embed"

// ProjectConfigTemplate is written to .wordtracker.yaml by `config init`.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string

// UserConfigTemplate is written to the user config by `config init --user`.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string
