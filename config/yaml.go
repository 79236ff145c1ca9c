// SPDX-License-Identifier: EPL-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ik5/audeng/types"
)

const defaultHeader = `# audeng configuration
#
# Every engine key can be overridden from the environment, for example
# AUDENG_ENGINE_GAIN_DB=-6. Gain, pan and effect parameters are reloaded
# while "audeng play --watch" runs.
#
# effects[].type is gain, pan, lowpass, highpass, bandpass, notch, peak,
# lowshelf or highshelf.
`

// Marshal renders c as YAML with two space indentation.
func Marshal(c Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal parses YAML written by Marshal. Missing keys keep their
// defaults.
func Unmarshal(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %w", types.ErrConfiguration, err)
	}
	return c, nil
}

// DefaultFile returns the content written by WriteDefault.
func DefaultFile() ([]byte, error) {
	c := Default()
	c.Effects = []EffectConfig{
		{ID: 1, Type: "highpass", Frequency: 40, Q: 0.707},
		{ID: 2, Type: "gain", GainDB: 0},
	}
	body, err := Marshal(c)
	if err != nil {
		return nil, err
	}
	return append([]byte(defaultHeader+"\n"), body...), nil
}

// WriteDefault creates path with the default configuration. An existing
// file is kept unless overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if ext := filepath.Ext(path); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%w: %q is not a supported configuration type: use .yaml or .yml", types.ErrConfiguration, ext)
	}

	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("%w: %s already exists", types.ErrConfiguration, path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %w", types.ErrIO, path, err)
	}

	data, err := DefaultFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", types.ErrIO, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", types.ErrIO, err)
	}
	return nil
}
