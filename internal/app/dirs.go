package app

import (
	"os"
	"path/filepath"
)

// BaseDir returns the directory the renderer is installed in. The shipped
// default directory and the fallbacks for the custom and output directories
// live next to the binary.
func BaseDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

func (a *App) templateDirs(cfg *Config) []string {
	return searchDirs(cfg.CustomDir, a.defaultDir, "templates")
}

func (a *App) assetDirs(cfg *Config) []string {
	return searchDirs(cfg.CustomDir, a.defaultDir, "assets")
}

// searchDirs lists the directories searched for templates or assets, the
// custom directory first so its files shadow the shipped ones.
func searchDirs(customDir, defaultDir, kind string) []string {
	var dirs []string
	if customDir != "" {
		dir := filepath.Join(customDir, kind)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return append(dirs, filepath.Join(defaultDir, kind))
}
