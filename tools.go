//go:build tools

package footprint

import (
	_ "github.com/dmarkham/enumer"
)
