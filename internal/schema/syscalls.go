package schema

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// OS is an implementation wrapping operating system functions.
type OS struct{}

// ReadDir wraps around [os.ReadDir].
func (*OS) ReadDir(name string) ([]os.DirEntry, error) {
	return os.ReadDir(name)
}

// Getwd wraps around [os.Getwd].
func (*OS) Getwd() (string, error) {
	return os.Getwd()
}

// LookupEnv wraps around [os.LookupEnv].
func (*OS) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Unix is an implementation wrapping Unix operating system functions.
type Unix struct{}

// Open wraps around [unix.Open].
func (*Unix) Open(path string, mode int, perm uint32) (int, error) {
	return unix.Open(path, mode, perm)
}

// Close wraps around [unix.Close].
func (*Unix) Close(fd int) error {
	return unix.Close(fd)
}

// Read wraps around [unix.Read].
func (*Unix) Read(fd int, p []byte) (int, error) {
	return unix.Read(fd, p)
}

// Write wraps around [unix.Write].
func (*Unix) Write(fd int, p []byte) (int, error) {
	return unix.Write(fd, p)
}

// Seek wraps around [unix.Seek].
func (*Unix) Seek(fd int, offset int64, whence int) (int64, error) {
	return unix.Seek(fd, offset, whence)
}

// Fstat wraps around [unix.Fstat].
func (*Unix) Fstat(fd int, stat *unix.Stat_t) error {
	return unix.Fstat(fd, stat)
}

// Stat wraps around [unix.Stat].
func (*Unix) Stat(path string, stat *unix.Stat_t) error {
	return unix.Stat(path, stat)
}

// Lstat wraps around [unix.Lstat].
func (*Unix) Lstat(path string, stat *unix.Stat_t) error {
	return unix.Lstat(path, stat)
}

// Ftruncate wraps around [unix.Ftruncate].
func (*Unix) Ftruncate(fd int, length int64) error {
	return unix.Ftruncate(fd, length)
}

// Fsync wraps around [unix.Fsync].
func (*Unix) Fsync(fd int) error {
	return unix.Fsync(fd)
}

// Fadvise wraps around [unix.Fadvise].
func (*Unix) Fadvise(fd int, offset int64, length int64, advice int) error {
	return unix.Fadvise(fd, offset, length, advice)
}

// FcntlFlock wraps around [unix.FcntlFlock].
func (*Unix) FcntlFlock(fd uintptr, cmd int, lk *unix.Flock_t) error {
	return unix.FcntlFlock(fd, cmd, lk)
}

// FcntlInt wraps around [unix.FcntlInt].
func (*Unix) FcntlInt(fd uintptr, cmd int, arg int) (int, error) {
	return unix.FcntlInt(fd, cmd, arg)
}

// Unlink wraps around [unix.Unlink].
func (*Unix) Unlink(path string) error {
	return unix.Unlink(path)
}

// Rename wraps around [unix.Rename].
func (*Unix) Rename(oldpath, newpath string) error {
	return unix.Rename(oldpath, newpath)
}

// Mkdir wraps around [unix.Mkdir].
func (*Unix) Mkdir(path string, mode uint32) error {
	return unix.Mkdir(path, mode)
}

// Rmdir wraps around [unix.Rmdir].
func (*Unix) Rmdir(path string) error {
	return unix.Rmdir(path)
}

// Chmod wraps around [unix.Chmod].
func (*Unix) Chmod(path string, mode uint32) error {
	return unix.Chmod(path, mode)
}

// UtimesNano wraps around [unix.UtimesNano].
func (*Unix) UtimesNano(path string, times []unix.Timespec) error {
	return unix.UtimesNano(path, times)
}

// Access wraps around [unix.Access].
func (*Unix) Access(path string, mode uint32) error {
	return unix.Access(path, mode)
}

// Chdir wraps around [unix.Chdir].
func (*Unix) Chdir(path string) error {
	return unix.Chdir(path)
}

// Pipe2 wraps around [unix.Pipe2].
func (*Unix) Pipe2(p []int, flags int) error {
	return unix.Pipe2(p, flags)
}

// Statfs wraps around [unix.Statfs].
func (*Unix) Statfs(path string, buf *unix.Statfs_t) error {
	return unix.Statfs(path, buf)
}

// Getrlimit wraps around [unix.Getrlimit].
func (*Unix) Getrlimit(resource int, rlim *unix.Rlimit) error {
	return unix.Getrlimit(resource, rlim)
}

// Geteuid wraps around [unix.Geteuid].
func (*Unix) Geteuid() int {
	return unix.Geteuid()
}

// Getegid wraps around [unix.Getegid].
func (*Unix) Getegid() int {
	return unix.Getegid()
}

// BlockDeviceSize queries the size of a block device through the
// BLKGETSIZE64 ioctl.
func (*Unix) BlockDeviceSize(fd int) (uint64, error) {
	var size uint64

	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(unix.BLKGETSIZE64), uintptr(unsafe.Pointer(&size)))
	if errno != 0 {
		return 0, errno
	}

	return size, nil
}
