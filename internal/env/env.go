package env

import (
	"os"
	"path/filepath"
)

const (
	defaultXDGConfigDirname = ".config"
	defaultXDGDataDirname   = ".local/share"
)

var (
	TRASHCTL_CONFIG_PATH string

	TRASHCTL_LOG_PATH string
)

func init() {
	// Follow https://specifications.freedesktop.org/basedir-spec/latest/
	if e := os.Getenv("TRASHCTL_CONFIG_PATH"); e != "" {
		TRASHCTL_CONFIG_PATH = e
	} else {
		configDir := os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				panic(err)
			}
			configDir = filepath.Join(homeDir, defaultXDGConfigDirname)
		}
		TRASHCTL_CONFIG_PATH = filepath.Join(configDir, "trashctl", "config.yaml")
	}

	if e := os.Getenv("TRASHCTL_LOG_PATH"); e != "" {
		TRASHCTL_LOG_PATH = e
	} else {
		TRASHCTL_LOG_PATH = filepath.Join(DataHome(), "trashctl", "debug.log")
	}
}

// DataHome returns $XDG_DATA_HOME, falling back to ~/.local/share.
// The home trash lives directly under this directory.
func DataHome() string {
	if dataDir := os.Getenv("XDG_DATA_HOME"); dataDir != "" {
		return dataDir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}
	return filepath.Join(homeDir, defaultXDGDataDirname)
}
