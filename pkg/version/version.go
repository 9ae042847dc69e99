package version

// Version is the current ssworld release.
const Version = "0.4.0"

// BuildVersion returns the version string printed by the version command.
func BuildVersion() string {
	return "ssworld version " + Version
}

// APIVersion returns the bare version number for API responses.
func APIVersion() string {
	return Version
}
