package cli

import (
	"strings"
	"testing"
)

func TestVersionPrint(t *testing.T) {
	v := Version{
		AppName:   "trashctl",
		Version:   "1.2.3",
		Revision:  "abc1234",
		BuildDate: "2026-08-29",
	}

	out := v.Print()
	for _, want := range []string{"trashctl", "version: 1.2.3", "revision: abc1234", "buildDate: 2026-08-29"} {
		if !strings.Contains(out, want) {
			t.Errorf("Print() missing %q:\n%s", want, out)
		}
	}
}

func TestVersionPrintFallsBackToBuildInfo(t *testing.T) {
	v := Version{AppName: "trashctl", Version: "unset"}

	if strings.Contains(v.Print(), "version: unset") {
		t.Error("unset version should be replaced from build info")
	}
}
