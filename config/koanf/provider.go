package koanf

import (
	"fmt"

	"github.com/knadh/koanf"
	"github.com/miruken-go/disposal"
)

// settings mirror disposal.Options in a form koanf can unmarshal.
// https://github.com/knadh/koanf
type settings struct {
	Policy    string `path:"policy"`
	Verbosity int    `path:"verbosity"`
}

// Options reads the disposal settings under path from k.
// The returned func is intended for disposal.Configure.
// Keys not present leave the corresponding option unchanged.
// k is expected to use the "." key delimiter.
func Options(
	k    *koanf.Koanf,
	path string,
) (func(*disposal.Options), error) {
	if k == nil {
		panic("k cannot be nil")
	}
	var s settings
	if err := k.UnmarshalWithConf(path, &s,
		koanf.UnmarshalConf{Tag: "path"}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var policy disposal.Policy
	if s.Policy != "" {
		p, err := disposal.ParsePolicy(s.Policy)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		policy = p
	}
	verbosity := s.Verbosity
	hasVerbosity := k.Exists(key(path, "verbosity"))
	return func(options *disposal.Options) {
		if policy != 0 {
			options.Policy = policy
		}
		if hasVerbosity {
			options.Verbosity = disposal.Set(verbosity)
		}
	}, nil
}

// Load configures disposal from the settings under path in k.
func Load(k *koanf.Koanf, path string) error {
	configure, err := Options(k, path)
	if err != nil {
		return err
	}
	disposal.Configure(configure)
	return nil
}

func key(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
