// pdp/policy/loader.go
package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	fw_errors "github.com/skyber-io/privacy-firewall/errors"
)

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadFile reads a YAML rules file. Parse failures are returned as-is;
// semantic problems surface later through Store.Load.
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fw_errors.ErrPolicyFileMissing
		}
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}

	return file.Rules, nil
}
