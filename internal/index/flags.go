package index

import (
	"fmt"
	"strings"
)

type flagName struct {
	bit  uint32
	name string
}

var fileAttributeNames = []flagName{
	{0x00000001, "FILE_ATTRIBUTE_READONLY"},
	{0x00000002, "FILE_ATTRIBUTE_HIDDEN"},
	{0x00000004, "FILE_ATTRIBUTE_SYSTEM"},
	{0x00000010, "FILE_ATTRIBUTE_DIRECTORY"},
	{0x00000020, "FILE_ATTRIBUTE_ARCHIVE"},
	{0x00000040, "FILE_ATTRIBUTE_DEVICE"},
	{0x00000080, "FILE_ATTRIBUTE_NORMAL"},
	{0x00000100, "FILE_ATTRIBUTE_TEMPORARY"},
	{0x00000200, "FILE_ATTRIBUTE_SPARSE_FILE"},
	{0x00000400, "FILE_ATTRIBUTE_REPARSE_POINT"},
	{0x00000800, "FILE_ATTRIBUTE_COMPRESSED"},
	{0x00001000, "FILE_ATTRIBUTE_OFFLINE"},
	{0x00002000, "FILE_ATTRIBUTE_NOT_CONTENT_INDEXED"},
	{0x00004000, "FILE_ATTRIBUTE_ENCRYPTED"},
	{0x00008000, "FILE_ATTRIBUTE_INTEGRITY_STREAM"},
	{0x00010000, "FILE_ATTRIBUTE_VIRTUAL"},
	{0x00020000, "FILE_ATTRIBUTE_NO_SCRUB_DATA"},
	{0x00040000, "FILE_ATTRIBUTE_RECALL_ON_OPEN"},
	{0x00080000, "FILE_ATTRIBUTE_PINNED"},
	{0x00100000, "FILE_ATTRIBUTE_UNPINNED"},
	{0x00400000, "FILE_ATTRIBUTE_RECALL_ON_DATA_ACCESS"},
}

var sfgaoNames = []flagName{
	{0x00000001, "SFGAO_CANCOPY"},
	{0x00000002, "SFGAO_CANMOVE"},
	{0x00000004, "SFGAO_CANLINK"},
	{0x00000008, "SFGAO_STORAGE"},
	{0x00000010, "SFGAO_CANRENAME"},
	{0x00000020, "SFGAO_CANDELETE"},
	{0x00000040, "SFGAO_HASPROPSHEET"},
	{0x00000100, "SFGAO_DROPTARGET"},
	{0x00000800, "SFGAO_PLACEHOLDER"},
	{0x00001000, "SFGAO_SYSTEM"},
	{0x00002000, "SFGAO_ENCRYPTED"},
	{0x00004000, "SFGAO_ISSLOW"},
	{0x00008000, "SFGAO_GHOSTED"},
	{0x00010000, "SFGAO_LINK"},
	{0x00020000, "SFGAO_SHARE"},
	{0x00040000, "SFGAO_READONLY"},
	{0x00080000, "SFGAO_HIDDEN"},
	{0x00100000, "SFGAO_NONENUMERATED"},
	{0x00200000, "SFGAO_NEWCONTENT"},
	{0x00400000, "SFGAO_STREAM"},
	{0x00800000, "SFGAO_STORAGEANCESTOR"},
	{0x01000000, "SFGAO_VALIDATE"},
	{0x02000000, "SFGAO_REMOVABLE"},
	{0x04000000, "SFGAO_COMPRESSED"},
	{0x08000000, "SFGAO_BROWSABLE"},
	{0x10000000, "SFGAO_FILESYSANCESTOR"},
	{0x20000000, "SFGAO_FOLDER"},
	{0x40000000, "SFGAO_FILESYSTEM"},
	{0x80000000, "SFGAO_HASSUBFOLDER"},
}

// FileAttributes renders a FILE_ATTRIBUTE_* mask.
func FileAttributes(v uint32) string { return joinFlags(v, fileAttributeNames) }

// SFGAOFlags renders an SFGAO_* mask.
func SFGAOFlags(v uint32) string { return joinFlags(v, sfgaoNames) }

// joinFlags lists the names of the set bits separated by ", ". Bits without
// a name are appended as one hex value. Zero renders as "None".
func joinFlags(v uint32, table []flagName) string {
	if v == 0 {
		return "None"
	}
	var parts []string
	rest := v
	for _, f := range table {
		if v&f.bit != 0 {
			parts = append(parts, f.name)
			rest &^= f.bit
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%08X", rest))
	}
	return strings.Join(parts, ", ")
}
