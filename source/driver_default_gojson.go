// Package source installs the go-json token driver as the process default.
// Import it for side effects:
//
//	import _ "github.com/reoring/protopatch/source"
package source

import (
	"github.com/reoring/protopatch"
	drvgojson "github.com/reoring/protopatch/source/gojson"
)

// init in a separate package to avoid an import cycle in root.
func init() { protopatch.SetJSONDriver(drvgojson.Driver()) }
