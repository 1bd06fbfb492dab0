package config

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type CorsConfig struct {
	AllowedOrigins AllowedOrigins `yaml:"allowed_origins"`
}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

// ParseAllowedOrigins splits a comma separated origin list.
func ParseAllowedOrigins(s string) AllowedOrigins {
	origins := AllowedOrigins{}
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			origins[o] = nullValue{}
		}
	}
	return origins
}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	sort.Strings(origins)
	return strings.Join(origins, ", ")
}

// UnmarshalYAML accepts either a list of origins or a comma separated string.
func (a *AllowedOrigins) UnmarshalYAML(node *yaml.Node) error {
	var list []string
	if node.Kind == yaml.SequenceNode {
		if err := node.Decode(&list); err != nil {
			return err
		}
		*a = ParseAllowedOrigins(strings.Join(list, ","))
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*a = ParseAllowedOrigins(s)
	return nil
}

func (CorsConfig) AllowedMethods() string {
	return "GET, POST, PUT, PATCH, DELETE"
}

func (CorsConfig) AllowedHeaders() string {
	return "Content-Type, Authorization"
}
