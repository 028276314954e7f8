package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// loadPolicyFile overlays the keys present in a YAML file onto p. Keys the
// file does not mention keep their environment value.
func loadPolicyFile(path string, p *PolicyConfig) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return err
	}
	return k.UnmarshalWithConf("", p, koanf.UnmarshalConf{Tag: "koanf"})
}
