package trash

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/PotatoMaaan/trashctl/internal/fs"
	"github.com/moby/sys/mountinfo"
)

// Skip file systems that can't have trash directories
var skipFSTypes = map[string]bool{
	"proc":        true,
	"sysfs":       true,
	"devtmpfs":    true,
	"devpts":      true,
	"cgroup":      true,
	"cgroup2":     true,
	"pstore":      true,
	"securityfs":  true,
	"debugfs":     true,
	"configfs":    true,
	"fusectl":     true,
	"bpf":         true,
	"nsfs":        true,
	"efivarfs":    true,
	"hugetlbfs":   true,
	"mqueue":      true,
	"binfmt_misc": true,
}

// mountPoints returns the mount points that can hold a top-level trash
// directory. Virtual and read-only filesystems are skipped.
func mountPoints() ([]string, error) {
	mounts, err := mountinfo.GetMounts(func(info *mountinfo.Info) (skip, stop bool) {
		if skipFSTypes[info.FSType] {
			return true, false
		}
		for _, opt := range strings.Split(info.Options, ",") {
			if opt == "ro" {
				slog.Debug("skipping read-only filesystem", "mountpoint", info.Mountpoint)
				return true, false
			}
		}
		return false, false
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get mount info: %w", err)
	}

	seen := make(map[string]bool)
	var points []string
	for _, m := range mounts {
		if !seen[m.Mountpoint] {
			points = append(points, m.Mountpoint)
			seen[m.Mountpoint] = true
		}
	}

	// The root filesystem always qualifies
	if !seen["/"] {
		points = append(points, "/")
	}

	return points, nil
}

// topdirOf finds the root of the filesystem holding path by walking up
// until the device id changes.
func topdirOf(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	dev, err := fs.DeviceID(abs)
	if err != nil {
		return "", err
	}

	top := abs
	for {
		parent := filepath.Dir(top)
		if parent == top {
			return top, nil
		}
		parentDev, err := fs.DeviceID(parent)
		if err != nil {
			return "", err
		}
		if parentDev != dev {
			return top, nil
		}
		top = parent
	}
}

// isSysPath does some basic checks to determine if the given path is a
// system path, i.e. a place where trashing a file (and later restoring it)
// would probably be a bad idea.
func isSysPath(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	abs = filepath.Clean(abs)

	if abs == "/" {
		return true
	}

	parts := strings.Split(strings.TrimPrefix(abs, "/"), "/")
	if len(parts) == 0 {
		return false
	}
	switch parts[0] {
	case "boot", "dev", "proc", "sys", "lost+found":
		return true
	}
	return false
}
