// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"
	"slices"
	"strings"
)

// EnvToSlice converts a map of environment variables to a slice sorted by key.
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		result = append(result, k+"="+env[k])
	}
	return result
}

// EnvFromSlice converts KEY=VALUE pairs to a map. Later duplicates win and
// entries without '=' are dropped.
func EnvFromSlice(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, e := range environ {
		k, v, ok := strings.Cut(e, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

// BuildEnv layers env files over a base environment. Files are applied in
// order, so later files override earlier ones and all of them override base.
// The base map is not modified.
func BuildEnv(base map[string]string, files []string, cwd string) (map[string]string, error) {
	env := maps.Clone(base)
	if env == nil {
		env = make(map[string]string)
	}
	for _, path := range files {
		if err := LoadEnvFile(env, path, cwd); err != nil {
			return nil, err
		}
	}
	return env, nil
}
