package mmsched

import (
	"fmt"
	"runtime/debug"
)

const modulePath = "github.com/LynnColeArt/mmsched"

// Version reports the module version and checksum recorded in the build
// info of the running binary. Both are empty in binaries built without
// module support. A replaced module reports "version=>path version".
func Version() (version, sum string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	for _, m := range info.Deps {
		if m.Path != modulePath {
			continue
		}
		if r := m.Replace; r != nil {
			return fmt.Sprintf("%s=>%s %s", m.Version, r.Path, r.Version), r.Sum
		}
		return m.Version, m.Sum
	}
	return "", ""
}
