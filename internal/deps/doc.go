// Package deps checks that the external binaries vidfit shells out to are
// installed and reports the versions they announce.
package deps
