// Package flagx lets several loaders share one command line: each loader
// picks out only the flags it owns before handing them to a flag.FlagSet.
package flagx

import (
	"flag"
	"io"
	"slices"
	"strings"
)

// FilterArgs keeps the flags listed in allowed, together with their values,
// and drops everything else. Both "-d path" and "-d=path" forms are kept.
// A token starting with '-' is never taken as a value.
func FilterArgs(args []string, allowed []string) []string {
	kept := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(arg, "-") {
			if slices.Contains(allowed, name) {
				kept = append(kept, arg)
			}
			continue
		}

		if !slices.Contains(allowed, arg) {
			continue
		}
		kept = append(kept, arg)

		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			kept = append(kept, args[i+1])
			i++
		}
	}

	return kept
}

// ConfigPath returns the JSON config path given with -c or -config, or ""
// when neither is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
