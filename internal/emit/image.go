package emit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"ember/internal/isa"
)

// Current schema version - increment when Image format changes
const imageSchemaVersion uint16 = 1

// ImageInstr is the serialized form of one instruction.
type ImageInstr struct {
	Op   uint16
	Args []ImageArg
}

// ImageArg is the serialized form of one argument.
type ImageArg struct {
	Mode     uint8
	Cell     uint8
	Bol      bool
	Lon      int64
	Flo      float64
	VarIndex int
	FunIndex int
	Label    string
}

// Image is the serialized object module written next to the compiled
// source. The linker consumes it; the compiler only produces it.
type Image struct {
	Schema  uint16
	BuildID string

	Module string

	Code       []ImageInstr
	JumpDests  []JumpDest
	ArrFixDefs []ArrFixDef
	DlCalls    []DlCall
	LitStrings []string

	GlobValuePointer int64
}

// BuildImage freezes the assembler state into a serializable image.
func (a *Assembler) BuildImage(module string, litStrings []string, globValuePointer int64) *Image {
	img := &Image{
		Schema:           imageSchemaVersion,
		BuildID:          uuid.NewString(),
		Module:           module,
		JumpDests:        a.jumpDests,
		ArrFixDefs:       a.arrFixDefs,
		DlCalls:          a.dlCalls,
		LitStrings:       litStrings,
		GlobValuePointer: globValuePointer,
	}
	img.Code = make([]ImageInstr, len(a.Code))
	for i, ins := range a.Code {
		out := ImageInstr{Op: uint16(ins.Op), Args: make([]ImageArg, len(ins.Args))}
		for j, arg := range ins.Args {
			out.Args[j] = ImageArg{
				Mode:     uint8(arg.Mode),
				Cell:     uint8(arg.Cell),
				Bol:      arg.Bol,
				Lon:      packedLon(arg),
				Flo:      arg.Flo,
				VarIndex: arg.VarIndex,
				FunIndex: arg.FunIndex,
				Label:    arg.Label,
			}
		}
		img.Code[i] = out
	}
	return img
}

func packedLon(arg isa.Arg) int64 {
	switch arg.Cell {
	case isa.CellChr:
		return int64(arg.Chr)
	case isa.CellShr:
		return int64(arg.Shr)
	case isa.CellInt:
		return int64(arg.Int)
	case isa.CellAdr:
		return arg.Adr
	case isa.CellWrd:
		return arg.Wrd
	default:
		return arg.Lon
	}
}

// Save writes the image atomically: serialize into a temp file in the
// target directory, then rename over the destination.
func (img *Image) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(img); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// LoadImage reads and validates an object image.
func LoadImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("object image %s not found", path)
		}
		return nil, err
	}
	defer f.Close()
	dec := msgpack.NewDecoder(f)
	img := &Image{}
	if err := dec.Decode(img); err != nil {
		return nil, err
	}
	if img.Schema != imageSchemaVersion {
		return nil, fmt.Errorf("object image %s has schema %d, want %d", path, img.Schema, imageSchemaVersion)
	}
	return img, nil
}
