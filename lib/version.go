// Package lib holds project metadata and the shared logger setup.
package lib

// Name is the canonical project name.
const Name = "ZKGrade"

// Version is the current semantic version.
const Version = "0.2.0"
