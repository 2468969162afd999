package auth

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Permissions maps a role name to the permission strings it grants
type Permissions map[string][]string

type permissionsFile struct {
	Roles map[string][]string `yaml:"roles"`
}

// LoadPermissions reads the role-to-permissions mapping from a YAML file.
// The file is loaded once at startup; route middleware consults the
// returned map on every request.
func LoadPermissions(path string) (Permissions, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf permissionsFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, err
	}
	return Permissions(pf.Roles), nil
}
