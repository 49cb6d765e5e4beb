package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"reality-portal/internal/engineconfig"
)

// Environment variables that override engine preferences.
const (
	KeyLayout = "PORTAL_LAYOUT"
	KeyStereo = "PORTAL_STEREO"
	KeyIPD    = "PORTAL_IPD"
)

// Apply returns p with PORTAL_* overrides from the environment applied. Unparsable values are
// skipped and reported in the returned error; the valid ones still apply.
func Apply(p engineconfig.EnginePrefs) (engineconfig.EnginePrefs, error) {
	return ApplyFrom(p, os.LookupEnv)
}

// ApplyFrom is Apply with an explicit lookup function.
func ApplyFrom(p engineconfig.EnginePrefs, lookup func(string) (string, bool)) (engineconfig.EnginePrefs, error) {
	var bad []string
	if v, ok := lookup(KeyLayout); ok && strings.TrimSpace(v) != "" {
		p.LayoutPath = strings.TrimSpace(v)
	}
	if v, ok := lookup(KeyStereo); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			bad = append(bad, KeyStereo+"="+v)
		} else {
			p.Stereo = b
		}
	}
	if v, ok := lookup(KeyIPD); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
		if err != nil || f <= 0 {
			bad = append(bad, KeyIPD+"="+v)
		} else {
			p.IPD = float32(f)
		}
	}
	if len(bad) > 0 {
		return p, fmt.Errorf("env: ignored %s", strings.Join(bad, ", "))
	}
	return p, nil
}
