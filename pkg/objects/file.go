package objects

import (
	"fmt"

	"github.com/open-dnp3/godnp3/pkg/cursor"
)

// FileStatus is the one-byte result code carried by g70v4 and g70v6
// objects. Reserved captures any code this codec does not name, per
// spec.md's Open Question on forward-compatible status handling: an
// unrecognized status code round-trips instead of being rejected.
type FileStatus struct {
	code uint8
}

var (
	FileStatusSuccess          = FileStatus{0}
	FileStatusPermissionDenied = FileStatus{1}
	FileStatusInvalidMode      = FileStatus{2}
	FileStatusFileNotFound     = FileStatus{3}
	FileStatusFileLocked       = FileStatus{4}
	FileStatusTooManyOpen      = FileStatus{5}
	FileStatusInvalidHandle    = FileStatus{6}
	FileStatusWriteBlockSize   = FileStatus{7}
	FileStatusCommLost         = FileStatus{8}
	FileStatusCannotAbort      = FileStatus{9}
	FileStatusNotOpened        = FileStatus{16}
	FileStatusHandleExpired    = FileStatus{17}
	FileStatusBufferOverrun    = FileStatus{18}
	FileStatusFatal            = FileStatus{19}
	FileStatusBlockSeq         = FileStatus{20}
	FileStatusUndefined        = FileStatus{255}
)

// NewFileStatus maps a wire byte to a named status, or Reserved(value) if
// the byte is not one of the standard codes.
func NewFileStatus(value uint8) FileStatus {
	return FileStatus{value}
}

// Reserved reports whether this status is outside the standard code set,
// and if so its raw byte.
func (s FileStatus) Reserved() (uint8, bool) {
	switch s.code {
	case 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 16, 17, 18, 19, 20, 255:
		return 0, false
	default:
		return s.code, true
	}
}

func (s FileStatus) Byte() uint8 { return s.code }

func (s FileStatus) String() string {
	switch s.code {
	case 0:
		return "Success"
	case 1:
		return "PermissionDenied"
	case 2:
		return "InvalidMode"
	case 3:
		return "FileNotFound"
	case 4:
		return "FileLocked"
	case 5:
		return "TooManyOpen"
	case 6:
		return "InvalidHandle"
	case 7:
		return "WriteBlockSize"
	case 8:
		return "CommLost"
	case 9:
		return "CannotAbort"
	case 16:
		return "NotOpened"
	case 17:
		return "HandleExpired"
	case 18:
		return "BufferOverrun"
	case 19:
		return "Fatal"
	case 20:
		return "BlockSeq"
	case 255:
		return "Undefined"
	default:
		return fmt.Sprintf("Reserved(%d)", s.code)
	}
}

// PermissionSet is read/write/execute permission for one of world, group,
// or owner, as carried by g70v3/g70v7 objects.
type PermissionSet struct {
	Read, Write, Execute bool
}

// Permissions is the 9-bit world/group/owner permission field used by
// file-command and file-descriptor objects.
type Permissions struct {
	World, Group, Owner PermissionSet
}

func (p Permissions) value() uint16 {
	var v uint16
	pack := func(s PermissionSet, shift uint) {
		if s.Execute {
			v |= 1 << shift
		}
		if s.Write {
			v |= 1 << (shift + 1)
		}
		if s.Read {
			v |= 1 << (shift + 2)
		}
	}
	pack(p.World, 0)
	pack(p.Group, 3)
	pack(p.Owner, 6)
	return v
}

func permissionsFromValue(bits uint16) Permissions {
	unpack := func(shift uint) PermissionSet {
		return PermissionSet{
			Execute: bits&(1<<shift) != 0,
			Write:   bits&(1<<(shift+1)) != 0,
			Read:    bits&(1<<(shift+2)) != 0,
		}
	}
	return Permissions{World: unpack(0), Group: unpack(3), Owner: unpack(6)}
}

// FileMode is the g70v3 operational-mode field of an open-file request.
type FileMode uint16

const (
	FileModeNull   FileMode = 0
	FileModeRead   FileMode = 1
	FileModeWrite  FileMode = 2
	FileModeAppend FileMode = 3
	FileModeDelete FileMode = 4
)

// FileIdentifier is a g70v2 object: a bare filename, used to name the
// subject of a directory-read or delete request.
type FileIdentifier struct {
	FileName string
}

func DecodeFileIdentifier(r *cursor.Reader) (FileIdentifier, error) {
	return FileIdentifier{FileName: string(r.Bytes())}, r.Skip(r.Remaining())
}

func EncodeFileIdentifier(w *cursor.Writer, v FileIdentifier) error {
	return w.WriteBytes([]byte(v.FileName))
}

// FileCommand is a g70v3 object: an open/delete-file request.
type FileCommand struct {
	Created         Timestamp
	Permissions     Permissions
	AuthKey         uint32
	FileSize        uint32
	Mode            FileMode
	MaxBlockSize    uint16
	RequestID       uint16
	FileName        string
}

func DecodeFileCommand(r *cursor.Reader) (FileCommand, error) {
	nameOffset, err := r.ReadUint16()
	if err != nil {
		return FileCommand{}, err
	}
	nameSize, err := r.ReadUint16()
	if err != nil {
		return FileCommand{}, err
	}
	created, err := DecodeTimestamp(r)
	if err != nil {
		return FileCommand{}, err
	}
	permBits, err := r.ReadUint16()
	if err != nil {
		return FileCommand{}, err
	}
	authKey, err := r.ReadUint32()
	if err != nil {
		return FileCommand{}, err
	}
	fileSize, err := r.ReadUint32()
	if err != nil {
		return FileCommand{}, err
	}
	mode, err := r.ReadUint16()
	if err != nil {
		return FileCommand{}, err
	}
	maxBlockSize, err := r.ReadUint16()
	if err != nil {
		return FileCommand{}, err
	}
	requestID, err := r.ReadUint16()
	if err != nil {
		return FileCommand{}, err
	}
	_ = nameOffset // fixed-header layout here, offset is always the header length
	name, err := r.ReadBytes(int(nameSize))
	if err != nil {
		return FileCommand{}, err
	}
	return FileCommand{
		Created:      created,
		Permissions:  permissionsFromValue(permBits),
		AuthKey:      authKey,
		FileSize:     fileSize,
		Mode:         FileMode(mode),
		MaxBlockSize: maxBlockSize,
		RequestID:    requestID,
		FileName:     string(name),
	}, nil
}

const fileCommandHeaderLength = 26

func EncodeFileCommand(w *cursor.Writer, v FileCommand) error {
	if len(v.FileName) > 0xFFFF {
		return fmt.Errorf("objects: g70v3 file name too long: %d bytes", len(v.FileName))
	}
	if err := w.WriteUint16(fileCommandHeaderLength); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(len(v.FileName))); err != nil {
		return err
	}
	if err := EncodeTimestamp(w, v.Created); err != nil {
		return err
	}
	if err := w.WriteUint16(v.Permissions.value()); err != nil {
		return err
	}
	if err := w.WriteUint32(v.AuthKey); err != nil {
		return err
	}
	if err := w.WriteUint32(v.FileSize); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(v.Mode)); err != nil {
		return err
	}
	if err := w.WriteUint16(v.MaxBlockSize); err != nil {
		return err
	}
	if err := w.WriteUint16(v.RequestID); err != nil {
		return err
	}
	return w.WriteBytes([]byte(v.FileName))
}

// FileCommandStatus is a g70v4 object: the outstation's response to an
// open-file request.
type FileCommandStatus struct {
	FileHandle   uint32
	FileSize     uint32
	MaxBlockSize uint16
	RequestID    uint16
	Status       FileStatus
	Text         string
}

func DecodeFileCommandStatus(r *cursor.Reader) (FileCommandStatus, error) {
	handle, err := r.ReadUint32()
	if err != nil {
		return FileCommandStatus{}, err
	}
	size, err := r.ReadUint32()
	if err != nil {
		return FileCommandStatus{}, err
	}
	maxBlockSize, err := r.ReadUint16()
	if err != nil {
		return FileCommandStatus{}, err
	}
	requestID, err := r.ReadUint16()
	if err != nil {
		return FileCommandStatus{}, err
	}
	status, err := r.ReadUint8()
	if err != nil {
		return FileCommandStatus{}, err
	}
	text := string(r.Bytes())
	if err := r.Skip(r.Remaining()); err != nil {
		return FileCommandStatus{}, err
	}
	return FileCommandStatus{
		FileHandle:   handle,
		FileSize:     size,
		MaxBlockSize: maxBlockSize,
		RequestID:    requestID,
		Status:       NewFileStatus(status),
		Text:         text,
	}, nil
}

func EncodeFileCommandStatus(w *cursor.Writer, v FileCommandStatus) error {
	if err := w.WriteUint32(v.FileHandle); err != nil {
		return err
	}
	if err := w.WriteUint32(v.FileSize); err != nil {
		return err
	}
	if err := w.WriteUint16(v.MaxBlockSize); err != nil {
		return err
	}
	if err := w.WriteUint16(v.RequestID); err != nil {
		return err
	}
	if err := w.WriteUint8(v.Status.Byte()); err != nil {
		return err
	}
	return w.WriteBytes([]byte(v.Text))
}

// FileTransportData is a g70v5 object: one block of file content. The top
// bit of BlockNumber flags the last block of the transfer.
type FileTransportData struct {
	FileHandle  uint32
	BlockNumber uint32
	LastBlock   bool
	Data        []byte
}

const lastBlockFlag = 1 << 31

func DecodeFileTransportData(r *cursor.Reader) (FileTransportData, error) {
	handle, err := r.ReadUint32()
	if err != nil {
		return FileTransportData{}, err
	}
	blockField, err := r.ReadUint32()
	if err != nil {
		return FileTransportData{}, err
	}
	data := r.Bytes()
	if err := r.Skip(r.Remaining()); err != nil {
		return FileTransportData{}, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return FileTransportData{
		FileHandle:  handle,
		BlockNumber: blockField &^ lastBlockFlag,
		LastBlock:   blockField&lastBlockFlag != 0,
		Data:        out,
	}, nil
}

func EncodeFileTransportData(w *cursor.Writer, v FileTransportData) error {
	if err := w.WriteUint32(v.FileHandle); err != nil {
		return err
	}
	blockField := v.BlockNumber &^ lastBlockFlag
	if v.LastBlock {
		blockField |= lastBlockFlag
	}
	if err := w.WriteUint32(blockField); err != nil {
		return err
	}
	return w.WriteBytes(v.Data)
}

// FileTransportStatus is a g70v6 object: the outstation's acknowledgement
// of one received file-transport block.
type FileTransportStatus struct {
	FileHandle  uint32
	BlockNumber uint32
	Status      FileStatus
	Text        string
}

func DecodeFileTransportStatus(r *cursor.Reader) (FileTransportStatus, error) {
	handle, err := r.ReadUint32()
	if err != nil {
		return FileTransportStatus{}, err
	}
	blockNumber, err := r.ReadUint32()
	if err != nil {
		return FileTransportStatus{}, err
	}
	status, err := r.ReadUint8()
	if err != nil {
		return FileTransportStatus{}, err
	}
	text := string(r.Bytes())
	if err := r.Skip(r.Remaining()); err != nil {
		return FileTransportStatus{}, err
	}
	return FileTransportStatus{
		FileHandle:  handle,
		BlockNumber: blockNumber,
		Status:      NewFileStatus(status),
		Text:        text,
	}, nil
}

func EncodeFileTransportStatus(w *cursor.Writer, v FileTransportStatus) error {
	if err := w.WriteUint32(v.FileHandle); err != nil {
		return err
	}
	if err := w.WriteUint32(v.BlockNumber); err != nil {
		return err
	}
	if err := w.WriteUint8(v.Status.Byte()); err != nil {
		return err
	}
	return w.WriteBytes([]byte(v.Text))
}

// FileDescriptor is a g70v7 object: one entry of a directory listing.
type FileDescriptor struct {
	FileType     uint16
	FileSize     uint32
	TimeOfCreation Timestamp
	Permissions  Permissions
	RequestID    uint16
	FileName     string
}

const fileDescriptorHeaderLength = 20

func DecodeFileDescriptor(r *cursor.Reader) (FileDescriptor, error) {
	nameOffset, err := r.ReadUint16()
	if err != nil {
		return FileDescriptor{}, err
	}
	nameSize, err := r.ReadUint16()
	if err != nil {
		return FileDescriptor{}, err
	}
	fileType, err := r.ReadUint16()
	if err != nil {
		return FileDescriptor{}, err
	}
	fileSize, err := r.ReadUint32()
	if err != nil {
		return FileDescriptor{}, err
	}
	created, err := DecodeTimestamp(r)
	if err != nil {
		return FileDescriptor{}, err
	}
	permBits, err := r.ReadUint16()
	if err != nil {
		return FileDescriptor{}, err
	}
	requestID, err := r.ReadUint16()
	if err != nil {
		return FileDescriptor{}, err
	}
	_ = nameOffset
	name, err := r.ReadBytes(int(nameSize))
	if err != nil {
		return FileDescriptor{}, err
	}
	return FileDescriptor{
		FileType:       fileType,
		FileSize:       fileSize,
		TimeOfCreation: created,
		Permissions:    permissionsFromValue(permBits),
		RequestID:      requestID,
		FileName:       string(name),
	}, nil
}

func EncodeFileDescriptor(w *cursor.Writer, v FileDescriptor) error {
	if len(v.FileName) > 0xFFFF {
		return fmt.Errorf("objects: g70v7 file name too long: %d bytes", len(v.FileName))
	}
	if err := w.WriteUint16(fileDescriptorHeaderLength); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(len(v.FileName))); err != nil {
		return err
	}
	if err := w.WriteUint16(v.FileType); err != nil {
		return err
	}
	if err := w.WriteUint32(v.FileSize); err != nil {
		return err
	}
	if err := EncodeTimestamp(w, v.TimeOfCreation); err != nil {
		return err
	}
	if err := w.WriteUint16(v.Permissions.value()); err != nil {
		return err
	}
	if err := w.WriteUint16(v.RequestID); err != nil {
		return err
	}
	return w.WriteBytes([]byte(v.FileName))
}

// FileSpecString is a g70v8 object: a free-form file specification (glob
// or path) used to scope a directory request.
type FileSpecString struct {
	Specification string
}

func DecodeFileSpecString(r *cursor.Reader) (FileSpecString, error) {
	s := string(r.Bytes())
	return FileSpecString{Specification: s}, r.Skip(r.Remaining())
}

func EncodeFileSpecString(w *cursor.Writer, v FileSpecString) error {
	return w.WriteBytes([]byte(v.Specification))
}
