//go:build evergreendebug

package motion

// Built with -tags evergreendebug: contract violations panic instead of clamping.
const debugAsserts = true
