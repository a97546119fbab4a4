package catalog

import "runtime"

// Platform identifies an operating system / architecture pair the way the
// asset templates key it.
type Platform struct {
	OS   string
	Arch string
}

// Current returns the platform of the running binary.
func Current() Platform {
	return Platform{
		OS:   runtime.GOOS,
		Arch: normalizeArch(runtime.GOARCH),
	}
}

// Key returns the "os/arch" form used as an AssetTemplates key.
func (p Platform) Key() string {
	return p.OS + "/" + p.Arch
}

func (p Platform) String() string {
	return p.OS + "-" + p.Arch
}

// normalizeArch folds alternate spellings onto the Go architecture names the
// template table uses.
func normalizeArch(arch string) string {
	switch arch {
	case "x86_64":
		return "amd64"
	case "aarch64":
		return "arm64"
	case "x86":
		return "386"
	default:
		return arch
	}
}
