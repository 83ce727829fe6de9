package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Конфигурация бэкенда
	CfgInfo               Code = 1000
	CfgUnknownTarget      Code = 1001
	CfgHandlerNoOpcode    Code = 1002
	CfgDuplicateOpcode    Code = 1003
	CfgMissingPseudoOp    Code = 1004
	CfgMissingConstructor Code = 1005
	CfgManifest           Code = 1006

	// Загрузка графа программы
	LoadInfo             Code = 2000
	LoadBadFile          Code = 2001
	LoadUnknownReference Code = 2002
	LoadDuplicateType    Code = 2003

	// Сканирование
	ScanInfo               Code = 3000
	ScanOpNotFound         Code = 3001
	ScanOpUnsupported      Code = 3002
	ScanOpFailure          Code = 3003
	ScanMissingSpecialType Code = 3004
	ScanValueOutOfRange    Code = 3005

	// Вывод
	EmitInfo        Code = 4000
	EmitWriteFailed Code = 4001

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		CfgInfo:                "Backend configuration information",
		CfgUnknownTarget:       "Unrecognised target architecture",
		CfgHandlerNoOpcode:     "Handler registered without a target opcode",
		CfgDuplicateOpcode:     "Opcode mapped to more than one handler",
		CfgMissingPseudoOp:     "Target does not provide a pseudo-instruction handler",
		CfgMissingConstructor:  "Target does not provide an output op constructor",
		CfgManifest:            "Invalid kilc.toml",
		LoadInfo:               "Program graph information",
		LoadBadFile:            "Program graph file could not be decoded",
		LoadUnknownReference:   "Reference to an undefined unit, type, method or field",
		LoadDuplicateType:      "Type identifier defined twice",
		ScanInfo:               "Scan information",
		ScanOpNotFound:         "Conversion IL op not found",
		ScanOpUnsupported:      "IL op reported something as not supported",
		ScanOpFailure:          "IL op conversion failed",
		ScanMissingSpecialType: "Runtime support type is missing",
		ScanValueOutOfRange:    "Metadata value does not fit the table slot",
		EmitInfo:               "Emit information",
		EmitWriteFailed:        "Failed to write assembly output",
		ObsInfo:                "Observability information",
		ObsTimings:             "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LDR%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SCN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("EMT%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
