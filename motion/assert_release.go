//go:build !evergreendebug

package motion

const debugAsserts = false
