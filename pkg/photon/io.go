package photon

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/yafaray-go/yafaray/pkg/core"
)

const fileMagic uint32 = 0x59415048 // "YAPH"

// Save writes the photon set to path in a bit-exact little-endian binary
// format: a magic/paths/count header followed by one fixed-width record
// per photon (position, direction, colour as nine float64s).
func (m *Map) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, fileMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int64(m.paths)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int64(len(m.photons))); err != nil {
		return err
	}
	for _, p := range m.photons {
		fields := [9]float64{
			p.Pos.X, p.Pos.Y, p.Pos.Z,
			p.Dir.X, p.Dir.Y, p.Dir.Z,
			p.Color.X, p.Color.Y, p.Color.Z,
		}
		if err := binary.Write(w, binary.LittleEndian, fields); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Load replaces the Map's contents by reading a file written by Save.
// The tree is left stale; callers must call UpdateTree before gathering.
func (m *Map) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return err
	}
	if magic != fileMagic {
		return fmt.Errorf("photon: %s is not a photon map file (bad magic %x)", path, magic)
	}

	var paths, count int64
	if err := binary.Read(r, binary.LittleEndian, &paths); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return err
	}

	photons := make([]Photon, count)
	for i := range photons {
		var fields [9]float64
		if err := binary.Read(r, binary.LittleEndian, &fields); err != nil {
			return err
		}
		photons[i] = Photon{
			Pos:   core.NewVec3(fields[0], fields[1], fields[2]),
			Dir:   core.NewVec3(fields[3], fields[4], fields[5]),
			Color: core.NewVec3(fields[6], fields[7], fields[8]),
		}
	}

	m.photons = photons
	m.paths = int(paths)
	m.tree = nil
	m.ready = false
	return nil
}
