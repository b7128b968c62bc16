package versioning

// Populated at build time by --ldflags, following SemVer
var (
	Version   string // the release version
	Commit    string // the git commit the binary was built from
	BuildTime string // the timestamp of the build
)
