package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Trapfether/tailwind-raw-reorder/pkg/matcher"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "rawreorder.yaml"

// ConfigFileNameAlt is the alternate (hidden) name of the config file.
const ConfigFileNameAlt = ".rawreorder.yaml"

// LoadFromDir loads a ProjectConfig from the given directory.
// It looks for rawreorder.yaml or .rawreorder.yaml in the directory.
// Returns defaults and an empty path if no config file is found.
func LoadFromDir(dir string) (*ProjectConfig, string, error) {
	configPath := FindConfigFile(dir)

	k := koanf.New(".")
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, "", fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}

	var cfg ProjectConfig
	if err := Unmarshal(k, "", &cfg); err != nil {
		return nil, "", fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ApplyDefaults()
	ResolvePaths(&cfg, dir)

	return &cfg, configPath, nil
}

// Unmarshal decodes the koanf tree at path into out, decoding class_regex
// values into matcher.LanguageConfig.
func Unmarshal(k *koanf.Koanf, path string, out any) error {
	return k.UnmarshalWithConf(path, out, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				matcher.DecodeHook(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           out,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	})
}

// ResolvePaths makes relative stylesheet and script paths absolute against
// baseDir.
func ResolvePaths(cfg *ProjectConfig, baseDir string) {
	cfg.Stylesheet = resolvePathRelativeTo(cfg.Stylesheet, baseDir)
	cfg.RulesScript = resolvePathRelativeTo(cfg.RulesScript, baseDir)
}

func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// FindConfigFile finds the config file in the given directory.
// Returns empty string if not found.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindProjectRoot walks up from the given directory to find a directory
// containing a config file.
// Returns empty string if not found.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for {
		if FindConfigFile(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
