package trash

import "testing"

func TestIsSysPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/dev/usb", true},
		{"/proc/mounts", true},
		{"/sys", true},
		{"/boot/grub", true},
		{"/lost+found", true},
		{"/", true},
		{"/home", false},
		{"/home/user/file.txt", false},
		{"/tmp/scratch", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := isSysPath(tt.path); got != tt.want {
				t.Errorf("isSysPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestTopdirOfIsAncestor(t *testing.T) {
	dir := t.TempDir()

	top, err := topdirOf(dir)
	if err != nil {
		t.Fatalf("topdirOf failed: %v", err)
	}
	if top == "" || top[0] != '/' {
		t.Errorf("topdirOf(%q) = %q, want an absolute path", dir, top)
	}
	if len(top) > len(dir) {
		t.Errorf("topdirOf(%q) = %q, not an ancestor", dir, top)
	}
}
