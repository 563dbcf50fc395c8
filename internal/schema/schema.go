// Package schema provides the principal schematics for all other packages. It
// defines the Windows-facing constants and value types (access rights, share
// modes, dispositions, attributes) and provides implementations for handling
// (Unix-based) operating system syscalls. The package serves as a foundational
// layer for filesystem interactions throughout the codebase.
package schema
