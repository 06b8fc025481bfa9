package index

import "fmt"

// VarType is a PROPVARIANT type tag.
type VarType uint16

const (
	VTEmpty    VarType = 0
	VTNull     VarType = 1
	VTI2       VarType = 2
	VTI4       VarType = 3
	VTR4       VarType = 4
	VTR8       VarType = 5
	VTCY       VarType = 6
	VTDate     VarType = 7
	VTBSTR     VarType = 8
	VTError    VarType = 10
	VTBool     VarType = 11
	VTI1       VarType = 16
	VTUI1      VarType = 17
	VTUI2      VarType = 18
	VTUI4      VarType = 19
	VTI8       VarType = 20
	VTUI8      VarType = 21
	VTInt      VarType = 22
	VTUInt     VarType = 23
	VTLPSTR    VarType = 30
	VTLPWSTR   VarType = 31
	VTFiletime VarType = 64
	VTBlob     VarType = 65
	VTCLSID    VarType = 72
	VTVector   VarType = 0x1000
)

// Base strips the vector modifier.
func (t VarType) Base() VarType { return t &^ VTVector }

// IsVector reports whether the value is a counted array of Base.
func (t VarType) IsVector() bool { return t&VTVector != 0 }

func (t VarType) String() string {
	name, ok := vtNames[t.Base()]
	if !ok {
		name = fmt.Sprintf("VT_%d", uint16(t.Base()))
	}
	if t.IsVector() {
		return "VT_VECTOR|" + name
	}
	return name
}

var vtNames = map[VarType]string{
	VTEmpty: "VT_EMPTY", VTNull: "VT_NULL", VTI2: "VT_I2", VTI4: "VT_I4",
	VTR4: "VT_R4", VTR8: "VT_R8", VTCY: "VT_CY", VTDate: "VT_DATE",
	VTBSTR: "VT_BSTR", VTError: "VT_ERROR", VTBool: "VT_BOOL", VTI1: "VT_I1",
	VTUI1: "VT_UI1", VTUI2: "VT_UI2", VTUI4: "VT_UI4", VTI8: "VT_I8",
	VTUI8: "VT_UI8", VTInt: "VT_INT", VTUInt: "VT_UINT", VTLPSTR: "VT_LPSTR",
	VTLPWSTR: "VT_LPWSTR", VTFiletime: "VT_FILETIME", VTBlob: "VT_BLOB",
	VTCLSID: "VT_CLSID",
}

// varTypeForESE infers a variant type from an ESE column type name. ESE
// stores no variant tag, so 8-byte currency columns, which Windows Search
// uses for timestamps, are treated as FILETIME.
func varTypeForESE(coltyp string) VarType {
	switch coltyp {
	case "Boolean", "Bit":
		return VTBool
	case "Unsigned byte":
		return VTUI1
	case "Signed short":
		return VTI2
	case "Unsigned short":
		return VTUI2
	case "Signed long":
		return VTI4
	case "Unsigned long":
		return VTUI4
	case "Long long", "Signed long long":
		return VTI8
	case "Unsigned long long":
		return VTUI8
	case "Currency":
		return VTFiletime
	case "IEEE Single":
		return VTR4
	case "IEEE Double":
		return VTR8
	case "DateTime":
		return VTDate
	case "GUID":
		return VTCLSID
	case "Text", "Long Text":
		return VTLPWSTR
	default:
		return VTBlob
	}
}
