// Package winerr implements the Win32 error taxonomy exposed by the
// compatibility layer, the translation of POSIX errno values into it and the
// last-error slot that operations deposit their outcome into.
package winerr

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Code is a Win32 error code. It implements the error interface, so a Code
// can be returned and wrapped like any other error.
type Code uint32

const (
	Success             Code = 0
	InvalidFunction     Code = 1
	FileNotFound        Code = 2
	PathNotFound        Code = 3
	TooManyOpenFiles    Code = 4
	AccessDenied        Code = 5
	InvalidHandle       Code = 6
	NotEnoughMemory     Code = 8
	BadFormat           Code = 11
	InvalidData         Code = 13
	NotSameDevice       Code = 17
	NoMoreFiles         Code = 18
	Seek                Code = 25
	WriteFault          Code = 29
	GenFailure          Code = 31
	SharingViolation    Code = 32
	LockViolation       Code = 33
	HandleDiskFull      Code = 39
	NotSupported        Code = 50
	DevNotExist         Code = 55
	FileExists          Code = 80
	CannotMake          Code = 82
	InvalidParameter    Code = 87
	BrokenPipe          Code = 109
	DiskFull            Code = 112
	InvalidName         Code = 123
	NegativeSeek        Code = 131
	DirNotEmpty         Code = 145
	AlreadyExists       Code = 183
	FilenameExcedRange  Code = 206
	FileTooLarge        Code = 223
	Directory           Code = 267
	IOPending           Code = 997
	CantResolveFilename Code = 1921
	EncryptionFailed    Code = 6000
)

//nolint:gochecknoglobals
var codeNames = map[Code]string{
	Success:             "ERROR_SUCCESS",
	InvalidFunction:     "ERROR_INVALID_FUNCTION",
	FileNotFound:        "ERROR_FILE_NOT_FOUND",
	PathNotFound:        "ERROR_PATH_NOT_FOUND",
	TooManyOpenFiles:    "ERROR_TOO_MANY_OPEN_FILES",
	AccessDenied:        "ERROR_ACCESS_DENIED",
	InvalidHandle:       "ERROR_INVALID_HANDLE",
	NotEnoughMemory:     "ERROR_NOT_ENOUGH_MEMORY",
	BadFormat:           "ERROR_BAD_FORMAT",
	InvalidData:         "ERROR_INVALID_DATA",
	NotSameDevice:       "ERROR_NOT_SAME_DEVICE",
	NoMoreFiles:         "ERROR_NO_MORE_FILES",
	Seek:                "ERROR_SEEK",
	WriteFault:          "ERROR_WRITE_FAULT",
	GenFailure:          "ERROR_GEN_FAILURE",
	SharingViolation:    "ERROR_SHARING_VIOLATION",
	LockViolation:       "ERROR_LOCK_VIOLATION",
	HandleDiskFull:      "ERROR_HANDLE_DISK_FULL",
	NotSupported:        "ERROR_NOT_SUPPORTED",
	DevNotExist:         "ERROR_DEV_NOT_EXIST",
	FileExists:          "ERROR_FILE_EXISTS",
	CannotMake:          "ERROR_CANNOT_MAKE",
	InvalidParameter:    "ERROR_INVALID_PARAMETER",
	BrokenPipe:          "ERROR_BROKEN_PIPE",
	DiskFull:            "ERROR_DISK_FULL",
	InvalidName:         "ERROR_INVALID_NAME",
	NegativeSeek:        "ERROR_NEGATIVE_SEEK",
	DirNotEmpty:         "ERROR_DIR_NOT_EMPTY",
	AlreadyExists:       "ERROR_ALREADY_EXISTS",
	FilenameExcedRange:  "ERROR_FILENAME_EXCED_RANGE",
	FileTooLarge:        "ERROR_FILE_TOO_LARGE",
	Directory:           "ERROR_DIRECTORY",
	IOPending:           "ERROR_IO_PENDING",
	CantResolveFilename: "ERROR_CANT_RESOLVE_FILENAME",
	EncryptionFailed:    "ERROR_ENCRYPTION_FAILED",
}

// Error returns the symbolic name of the code.
func (c Code) Error() string {
	if name, ok := codeNames[c]; ok {
		return name
	}

	return fmt.Sprintf("win32 error %d", uint32(c))
}

// FromErrno translates a POSIX errno into the nearest Win32 code.
func FromErrno(errno unix.Errno) Code {
	switch errno { //nolint:exhaustive
	case 0:
		return Success
	case unix.EACCES, unix.EPERM, unix.EROFS:
		return AccessDenied
	case unix.EAGAIN:
		return SharingViolation
	case unix.EBUSY:
		return LockViolation
	case unix.EEXIST:
		return FileExists
	case unix.EINVAL, unix.ESPIPE:
		return Seek
	case unix.EISDIR:
		return CannotMake
	case unix.ENFILE, unix.EMFILE:
		return TooManyOpenFiles
	case unix.ENOENT, unix.ENOTDIR:
		return FileNotFound
	case unix.ENOSPC:
		return HandleDiskFull
	case unix.ENOTEMPTY:
		return DirNotEmpty
	case unix.ENOEXEC:
		return BadFormat
	case unix.ENAMETOOLONG:
		return FilenameExcedRange
	case unix.EINPROGRESS, unix.EINTR:
		return IOPending
	case unix.ENOSYS:
		return NotSupported
	case unix.EBADF, unix.EIO:
		return InvalidHandle
	case unix.EPIPE:
		return WriteFault
	case unix.ELOOP:
		return CantResolveFilename
	case unix.ENODEV, unix.ENXIO:
		return DevNotExist
	case unix.EXDEV:
		return NotSameDevice
	case unix.EFBIG:
		return FileTooLarge
	}

	slog.Debug("Unmapped errno translated to generic failure", "errno", int(errno), "err", errno.Error())

	return GenFailure
}

// CodeOf extracts the Win32 code carried by an error. Codes are returned as
// they are, errno values are translated, nil is [Success] and everything
// else is [GenFailure].
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}

	var code Code
	if errors.As(err, &code) {
		return code
	}

	var errno unix.Errno
	if errors.As(err, &errno) {
		return FromErrno(errno)
	}

	return GenFailure
}

// Errno extracts the errno carried by an error, or 0 if there is none.
func Errno(err error) unix.Errno {
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno
	}

	return 0
}

// Slot is the last-error slot of a handler. The zero value holds [Success].
// It reflects the most recent outcome across all goroutines using the same
// handler, so concurrent callers must rely on returned errors instead.
type Slot struct {
	code atomic.Uint32
}

// Set stores a code.
func (s *Slot) Set(code Code) {
	s.code.Store(uint32(code))
}

// Clear resets the slot to [Success].
func (s *Slot) Clear() {
	s.code.Store(uint32(Success))
}

// Get returns the stored code.
func (s *Slot) Get() Code {
	return Code(s.code.Load())
}
