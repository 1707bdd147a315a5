package settings

import "path/filepath"

// Settings mirrors ddconv options.
type Settings struct {
	Force          bool
	Quiet          bool
	HumanSizes     bool
	IncludeDefects bool
	IncludeZoneMap bool
	ReportFileName string
}

func Default(reportBaseDir string) Settings {
	return Settings{
		Force:          false,
		Quiet:          false,
		HumanSizes:     true,
		IncludeDefects: true,
		IncludeZoneMap: false,
		ReportFileName: filepath.Join(reportBaseDir, "DDInfo_{0}.txt"),
	}
}
