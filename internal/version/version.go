package version

// Version is the release version, overridden at build time via
// -ldflags "-X github.com/mgenviz/mgenviz/internal/version.Version=v1.2.3".
var Version = "dev"
