package components

// String returns the display name for an OrnamentKind.
func (k OrnamentKind) String() string {
	names := OrnamentKindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// OrnamentKindNames returns the display names for all ornament kinds.
// The order matches the OrnamentKind constants.
func OrnamentKindNames() []string {
	return []string{"Ball", "Box"}
}

// OrnamentKindCount returns the number of ornament kinds.
func OrnamentKindCount() int {
	return len(OrnamentKindNames())
}
