package mem

import "github.com/1whatleytay/titan/cpu"

type mountedRegion struct {
	start uint32
	data  []byte
}

func (r *mountedRegion) contains(address uint32) bool {
	return r.start <= address && address < r.start+uint32(len(r.data))
}

// RegionMemory is a linear scan over mounted regions: simple, exact for
// small programs.
type RegionMemory struct {
	regions []*mountedRegion
}

func NewRegionMemory() *RegionMemory {
	return &RegionMemory{}
}

func (m *RegionMemory) Mount(region Region) {
	m.regions = append(m.regions, &mountedRegion{start: region.Start, data: append([]byte(nil), region.Data...)})
}

func (m *RegionMemory) find(address uint32) *mountedRegion {
	for _, r := range m.regions {
		if r.contains(address) {
			return r
		}
	}
	return nil
}

func (m *RegionMemory) Get(address uint32) (uint8, error) {
	r := m.find(address)
	if r == nil {
		return 0, cpu.MemoryUnmapped(address)
	}
	return r.data[address-r.start], nil
}

func (m *RegionMemory) Set(address uint32, value uint8) error {
	r := m.find(address)
	if r == nil {
		return cpu.MemoryUnmapped(address)
	}
	r.data[address-r.start] = value
	return nil
}

func (m *RegionMemory) GetU16(address uint32) (uint16, error) {
	if address%2 != 0 {
		return 0, cpu.MemoryAlign(cpu.AlignHalf, address)
	}
	if m.find(address) == nil {
		return 0, cpu.MemoryUnmapped(address)
	}
	return composeU16(m, address)
}

func (m *RegionMemory) GetU32(address uint32) (uint32, error) {
	if address%4 != 0 {
		return 0, cpu.MemoryAlign(cpu.AlignWord, address)
	}
	if m.find(address) == nil {
		return 0, cpu.MemoryUnmapped(address)
	}
	return composeU32(m, address)
}

func (m *RegionMemory) SetU16(address uint32, value uint16) error {
	if address%2 != 0 {
		return cpu.MemoryAlign(cpu.AlignHalf, address)
	}
	if m.find(address) == nil {
		return cpu.MemoryUnmapped(address)
	}
	return decomposeSetU16(m, address, value)
}

func (m *RegionMemory) SetU32(address uint32, value uint32) error {
	if address%4 != 0 {
		return cpu.MemoryAlign(cpu.AlignWord, address)
	}
	if m.find(address) == nil {
		return cpu.MemoryUnmapped(address)
	}
	return decomposeSetU32(m, address, value)
}
