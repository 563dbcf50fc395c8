package schema

// Access is a Windows access-rights bitmask as requested by an opener.
type Access uint32

const (
	GenericRead    Access = 0x80000000
	GenericWrite   Access = 0x40000000
	GenericExecute Access = 0x20000000
	GenericAll     Access = 0x10000000
)

// CanRead reports whether the rights allow reading.
func (a Access) CanRead() bool {
	return a&(GenericRead|GenericAll) != 0
}

// CanWrite reports whether the rights allow writing.
func (a Access) CanWrite() bool {
	return a&(GenericWrite|GenericAll) != 0
}

// CanReadOrWrite reports whether the rights allow either direction, as is
// required for positioning and size queries.
func (a Access) CanReadOrWrite() bool {
	return a&(GenericRead|GenericWrite|GenericAll) != 0
}

// ShareMode is a Windows share-mode bitmask. A zero value means no sharing.
type ShareMode uint32

const (
	ShareNone   ShareMode = 0
	ShareRead   ShareMode = 0x01
	ShareWrite  ShareMode = 0x02
	ShareDelete ShareMode = 0x04
)

// Disposition is a Windows creation disposition.
type Disposition uint32

const (
	CreateNew        Disposition = 1
	CreateAlways     Disposition = 2
	OpenExisting     Disposition = 3
	OpenAlways       Disposition = 4
	TruncateExisting Disposition = 5
)

// Attributes holds Windows file attribute bits and creation flags.
type Attributes uint32

const (
	AttributeReadonly          Attributes = 0x00000001
	AttributeHidden            Attributes = 0x00000002
	AttributeSystem            Attributes = 0x00000004
	AttributeDirectory         Attributes = 0x00000010
	AttributeArchive           Attributes = 0x00000020
	AttributeNormal            Attributes = 0x00000080
	AttributeTemporary         Attributes = 0x00000100
	AttributeSparseFile        Attributes = 0x00000200
	AttributeReparsePoint      Attributes = 0x00000400
	AttributeCompressed        Attributes = 0x00000800
	AttributeOffline           Attributes = 0x00001000
	AttributeNotContentIndexed Attributes = 0x00002000
	AttributeEncrypted         Attributes = 0x00004000

	// AttributeUnixExecutable is a non-standard bit only understood by
	// SetAttributes, requesting the executable bit wherever read is set.
	AttributeUnixExecutable Attributes = 0x80000000

	FlagDeleteOnClose  Attributes = 0x04000000
	FlagSequentialScan Attributes = 0x08000000
	FlagRandomAccess   Attributes = 0x10000000

	// InvalidFileAttributes is returned by attribute queries on failure.
	InvalidFileAttributes Attributes = 0xFFFFFFFF
)

//nolint:gochecknoglobals
var attributeNames = []struct {
	bit  Attributes
	name string
}{
	{AttributeReadonly, "readonly"},
	{AttributeHidden, "hidden"},
	{AttributeSystem, "system"},
	{AttributeDirectory, "directory"},
	{AttributeArchive, "archive"},
	{AttributeNormal, "normal"},
	{AttributeTemporary, "temporary"},
	{AttributeSparseFile, "sparse"},
	{AttributeReparsePoint, "reparse-point"},
	{AttributeCompressed, "compressed"},
	{AttributeOffline, "offline"},
	{AttributeNotContentIndexed, "not-indexed"},
	{AttributeEncrypted, "encrypted"},
}

// Names returns the names of the file attribute bits set in a. Creation
// flags are not named.
func (a Attributes) Names() []string {
	if a == InvalidFileAttributes {
		return []string{"invalid"}
	}

	var names []string
	for _, attr := range attributeNames {
		if a&attr.bit != 0 {
			names = append(names, attr.name)
		}
	}

	return names
}

// FileType is the Windows file type reported for a handle.
type FileType uint32

const (
	FileTypeUnknown FileType = 0
	FileTypeDisk    FileType = 1
	FileTypeChar    FileType = 2
	FileTypePipe    FileType = 3
)

// SeekMethod is the origin of a seek operation.
type SeekMethod uint32

const (
	FileBegin   SeekMethod = 0
	FileCurrent SeekMethod = 1
	FileEnd     SeekMethod = 2
)

// StdHandleID selects one of the three standard streams.
type StdHandleID int32

const (
	StdInputHandle  StdHandleID = -10
	StdOutputHandle StdHandleID = -11
	StdErrorHandle  StdHandleID = -12
)

const (
	// MaxPath is the capacity of a find result name buffer in UTF-16 units.
	MaxPath = 260

	// InvalidSetFilePointer is the low word returned by a failed seek.
	InvalidSetFilePointer uint32 = 0xFFFFFFFF

	// InvalidFileSize is the low word returned by a failed size query. It is
	// also a legitimate low word, so callers must consult the error.
	InvalidFileSize uint32 = 0xFFFFFFFF
)
