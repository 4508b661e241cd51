package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/databricks/databricks-sdk-go/config"
	"gopkg.in/ini.v1"
)

const (
	DefaultProfile = "DEFAULT"
	configFileEnv  = "DATABRICKS_CONFIG_FILE"
)

// Workspace is a resolved profile: the SDK credentials plus the SQL
// warehouse path, when the profile names one.
type Workspace struct {
	*config.Config
	HTTPPath string
}

// Profiles resolves sales warehouse connections from a .databrickscfg file
type Profiles interface {
	Names(ctx context.Context) ([]string, error)
	Resolve(ctx context.Context, name string) (*Workspace, error)
}

type profileFile struct {
	path string
	file *ini.File
}

// OpenProfiles loads the profile file at path. An empty path falls back to
// $DATABRICKS_CONFIG_FILE and then ~/.databrickscfg.
func OpenProfiles(path string) (Profiles, error) {
	if path == "" {
		path = os.Getenv(configFileEnv)
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate home directory: %w", err)
		}
		path = filepath.Join(home, ".databrickscfg")
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles %s: %w", path, err)
	}
	return &profileFile{path: path, file: file}, nil
}

// Names lists the profiles that carry at least one key, sorted.
func (p *profileFile) Names(_ context.Context) ([]string, error) {
	var names []string
	for _, section := range p.file.Sections() {
		if len(section.Keys()) > 0 {
			names = append(names, section.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

func (p *profileFile) Resolve(_ context.Context, name string) (*Workspace, error) {
	if name == "" {
		name = DefaultProfile
	}
	section, err := p.file.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return nil, fmt.Errorf("profile %s not found in %s", name, p.path)
	}

	ws := &Workspace{
		Config: &config.Config{
			Profile: name,
			Host:    section.Key("host").String(),
			Token:   section.Key("token").String(),
		},
		HTTPPath: section.Key("http_path").String(),
	}
	if ws.Host == "" || ws.Token == "" {
		return nil, fmt.Errorf("profile %s needs host and token", name)
	}
	return ws, nil
}
