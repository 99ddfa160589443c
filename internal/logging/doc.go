// Package logging provides leveled diagnostic output for ghenv commands.
//
// Verbosity is controlled by two root flags:
//
//   - --verbose: shows info messages
//   - --debug: shows info and debug messages, and traces every HTTP request
//
// Warnings are always shown. All diagnostics go to stderr so
// that command results on stdout can be piped.
//
//	log := logging.Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Using token from %s", source)
package logging
