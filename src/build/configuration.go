package build

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sofmeright/hlbuild/src/config"
	"github.com/sofmeright/hlbuild/src/platform"
)

// Configuration is one named build variant with its derived naming.
type Configuration struct {
	Name      string `json:"name"`
	BuildType string `json:"build_type"`
	Dir       string `json:"dir"`
	Artifact  string `json:"artifact"`
}

// NewConfiguration derives the build directory and artifact name for the
// configuration called name on platform p.
func NewConfiguration(cfg *config.Config, p platform.ID, name string) (Configuration, error) {
	canonical, err := config.CanonicalConfiguration(name)
	if err != nil {
		return Configuration{}, err
	}
	lower := strings.ToLower(canonical)
	return Configuration{
		Name:      canonical,
		BuildType: canonical,
		Dir:       filepath.Join(cfg.ProjectRoot(), "build_"+lower),
		Artifact:  ArtifactPrefix(cfg, p) + lower + p.ExeSuffix(),
	}, nil
}

// Configurations resolves names in order. No names selects every
// configuration the project file lists.
func Configurations(cfg *config.Config, p platform.ID, names []string) ([]Configuration, error) {
	if len(names) == 0 {
		names = cfg.Configurations
	}
	out := make([]Configuration, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		c, err := NewConfiguration(cfg, p, n)
		if err != nil {
			return nil, err
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("configuration %s requested twice", c.Name)
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out, nil
}

// ArtifactPrefix is the name prefix every artifact of the product carries
// on p, e.g. "cj_lightsimstatus_code_chal_linux_".
func ArtifactPrefix(cfg *config.Config, p platform.ID) string {
	return cfg.Product + "_" + cfg.ArtifactTag(p) + "_"
}
