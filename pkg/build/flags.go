// SPDX-License-Identifier: MIT
//
// Package build provides the build metadata embedded into the beatpulse binary
// at compile time using linker flags, for example:
//
//	go build -ldflags "-X beatpulse/pkg/build.buildName=beatpulse \
//	    -X beatpulse/pkg/build.buildVersion=0.1.0 ..."
//
// Development builds run without ldflags; Initialize reports the missing
// fields and the "unknown" defaults stay in place.
package build

import (
	"fmt"
	"strings"
)

const description = "Real-time microphone beat visualizer"

type ldFlags struct {
	Name        string
	Description string
	Time        string
	Commit      string
	Version     string
}

// Package-level variables for build information. These are populated by -ldflags
// during compilation.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &ldFlags{
		Name:        "beatpulse",
		Description: description,
		Time:        "unknown",
		Commit:      "unknown",
		Version:     "unknown",
	}
)

// Initialize validates and copies build information from ldflags variables
// into the buildFlags struct. Fields that were injected are copied even when
// others are missing; the returned error names every missing flag.
func Initialize() error {
	var missing []string

	if buildName == "" {
		missing = append(missing, "BuildName")
	} else {
		buildFlags.Name = buildName
	}
	if buildTime == "" {
		missing = append(missing, "BuildTime")
	} else {
		buildFlags.Time = buildTime
	}
	if buildCommit == "" {
		missing = append(missing, "BuildCommit")
	} else {
		buildFlags.Commit = buildCommit
	}
	if buildVersion == "" {
		missing = append(missing, "BuildVersion")
	} else {
		buildFlags.Version = buildVersion
	}

	if len(missing) > 0 {
		return fmt.Errorf("%s required", strings.Join(missing, ", "))
	}
	return nil
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}

// String renders the build information for --version output.
func (f *ldFlags) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", f.Name, f.Version, f.Commit, f.Time)
}
