package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/wordtracker/configs"
	"github.com/Aman-CERP/wordtracker/internal/config"
)

func TestConfigInit_CreatesProjectConfig(t *testing.T) {
	// Given: a project without a config file
	p := newProject(t)

	// When: running config init
	out, _, err := p.run(t, "config", "init")

	// Then: the template is written to .wordtracker.yaml
	require.NoError(t, err)
	assert.Contains(t, out, "Created configuration")
	assert.Equal(t, configs.ProjectConfigTemplate, readFile(t, p.path(".wordtracker.yaml")))
}

func TestConfigInit_ExistingNeedsForce(t *testing.T) {
	// Given: an existing, customized project config
	p := newProject(t)
	p.write(t, ".wordtracker.yaml", "report:\n  format: pf\n")

	// When: running init without --force
	out, _, err := p.run(t, "config", "init")

	// Then: the file is left alone
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
	assert.Equal(t, "report:\n  format: pf\n", readFile(t, p.path(".wordtracker.yaml")))

	// When: running with --force
	out, _, err = p.run(t, "config", "init", "--force")

	// Then: the old file is backed up and replaced
	require.NoError(t, err)
	assert.Contains(t, out, "Backup:")
	backups, err := config.ListBackups(p.path(".wordtracker.yaml"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, "report:\n  format: pf\n", readFile(t, backups[0]))
	assert.Equal(t, configs.ProjectConfigTemplate, readFile(t, p.path(".wordtracker.yaml")))
}

func TestConfigInit_User(t *testing.T) {
	p := newProject(t)

	_, _, err := p.run(t, "config", "init", "--user")

	require.NoError(t, err)
	assert.Equal(t, configs.UserConfigTemplate, readFile(t, config.GetUserConfigPath()))
	_, statErr := os.Stat(p.path(".wordtracker.yaml"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigShow_MergedJSON(t *testing.T) {
	p := newProject(t)
	p.write(t, ".wordtracker.yaml", "tokenizer:\n  min_length: 3\n")
	t.Setenv("WORDTRACKER_REPORT_FORMAT", "pl")

	out, _, err := p.run(t, "config", "show", "--json")

	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 3, cfg.Tokenizer.MinLength)
	assert.Equal(t, "pl", cfg.Report.Format)
}

func TestConfigShow_Sources(t *testing.T) {
	p := newProject(t)

	out, _, err := p.run(t, "config", "show", "--source", "defaults")
	require.NoError(t, err)
	assert.Contains(t, out, "defaults (hardcoded)")
	assert.Contains(t, out, "path: repository.db")

	out, _, err = p.run(t, "config", "show", "--source", "project")
	require.NoError(t, err)
	assert.Contains(t, out, "No project configuration file found")

	_, _, err = p.run(t, "config", "show", "--source", "bogus")
	assert.Error(t, err)
}

func TestConfigPath(t *testing.T) {
	p := newProject(t)

	out, _, err := p.run(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, config.GetUserConfigPath()+"\n", out)

	out, _, err = p.run(t, "config", "path", "--project")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(p.dir, ".wordtracker.yaml")+"\n", out)
}

func TestRepositoryPath_FollowsConfig(t *testing.T) {
	// Given: a project config moving the repository into a subdirectory
	p := newProject(t)
	p.write(t, ".wordtracker.yaml", "repository:\n  path: data/words.db\n")
	require.NoError(t, os.Mkdir(p.path("data"), 0o755))
	input := p.write(t, "in.txt", "moved\n")

	// When: tracking
	_, _, err := p.run(t, "track", input)

	// Then: the repository is created there, relative to the project root
	require.NoError(t, err)
	assert.FileExists(t, p.path("data/words.db"))
	assert.NoFileExists(t, p.path("repository.db"))
}
