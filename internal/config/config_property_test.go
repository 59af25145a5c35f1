//go:build property
// +build property

package config

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestConfigurationProperties tests configuration validation properties
func TestConfigurationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: every port inside the TCP range validates
	properties.Property("valid ports accepted", prop.ForAll(
		func(port int) bool {
			cfg := &PreviewConfig{Host: "localhost", Port: port, Page: "page.yml"}
			return validatePreviewConfig(cfg) == nil
		},
		gen.IntRange(0, 65535),
	))

	// Property: ports outside the range are rejected
	properties.Property("invalid ports rejected", prop.ForAll(
		func(port int) bool {
			cfg := &PreviewConfig{Host: "localhost", Port: port, Page: "page.yml"}
			return validatePreviewConfig(cfg) != nil
		},
		gen.OneGenOf(gen.IntRange(-100000, -1), gen.IntRange(65536, 1000000)),
	))

	// Property: flattening a nested map yields the dotted key
	properties.Property("flatten joins segments", prop.ForAll(
		func(prefix, leaf, value string) bool {
			in := map[string]interface{}{
				prefix: map[string]interface{}{leaf: value},
			}
			out := flattenStrings("", in)
			return len(out) == 1 && out[prefix+"."+leaf] == value
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.AlphaString(),
	))

	// Property: keys joined from non-empty segments are valid
	properties.Property("segment keys valid", prop.ForAll(
		func(segments []string) bool {
			if len(segments) == 0 {
				return true
			}
			return validateKey(strings.Join(segments, ".")) == nil
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}
