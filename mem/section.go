package mem

import "github.com/1whatleytay/titan/cpu"

const (
	pageSelectorShift = 16
	pageSize          = 1 << pageSelectorShift
	pageCount         = 1 << (32 - pageSelectorShift)
	pageSelectorMask  = ^pageIndexMask
	pageIndexMask     = ^uint32(0) >> (32 - pageSelectorShift)
	initialByte       = 0xCC
)

// ListenResponder backs a memory-mapped device: reads/writes to its page
// are delegated here instead of touching a data page.
type ListenResponder interface {
	Read(address uint32) (uint8, error)
	Write(address uint32, value uint8) error
}

type pageState int

const (
	pageEmpty pageState = iota
	pageData
	pageListen
)

type page struct {
	state    pageState
	data     *[pageSize]byte
	listener ListenResponder
}

// PageMemory splits an address into (page = addr>>16, offset = addr&0xFFFF).
// Pages default to empty; reading an empty page faults, writing one
// lazily materializes a data page seeded with 0xCC.
type PageMemory struct {
	pages [pageCount]page
}

func NewPageMemory() *PageMemory {
	return &PageMemory{}
}

func split(address uint32) (selector, index uint32) {
	return (address & pageSelectorMask) >> pageSelectorShift, address & pageIndexMask
}

func (m *PageMemory) createPage(selector uint32) *[pageSize]byte {
	data := new([pageSize]byte)
	for i := range data {
		data[i] = initialByte
	}
	m.pages[selector] = page{state: pageData, data: data}
	return data
}

func (m *PageMemory) pickPage(selector uint32) *[pageSize]byte {
	p := &m.pages[selector]
	if p.state == pageData {
		return p.data
	}
	return m.createPage(selector)
}

// MountListen installs a device responder at a page selector (the top 16
// bits of an address, not the address itself).
func (m *PageMemory) MountListen(selector uint32, responder ListenResponder) {
	m.pages[selector] = page{state: pageListen, listener: responder}
}

func (m *PageMemory) Mount(region Region) {
	startSelector, startIndex := split(region.Start)
	endSelector, endIndex := split(region.Start + uint32(len(region.Data)))

	dataIndex := 0
	for selector := startSelector; selector <= endSelector; selector++ {
		data := m.pickPage(selector)

		begin := uint32(0)
		if selector == startSelector {
			begin = startIndex
		}
		end := uint32(pageSize)
		if selector == endSelector {
			end = endIndex
		}

		for i := begin; i < end; i++ {
			data[i] = region.Data[dataIndex]
			dataIndex++
		}
	}
}

func (m *PageMemory) Get(address uint32) (uint8, error) {
	selector, index := split(address)
	p := &m.pages[selector]
	switch p.state {
	case pageData:
		return p.data[index], nil
	case pageListen:
		return p.listener.Read(address)
	default:
		return 0, cpu.MemoryUnmapped(address)
	}
}

func (m *PageMemory) Set(address uint32, value uint8) error {
	selector, index := split(address)
	p := &m.pages[selector]
	switch p.state {
	case pageData:
		p.data[index] = value
		return nil
	case pageListen:
		return p.listener.Write(address, value)
	default:
		data := m.createPage(selector)
		data[index] = value
		return nil
	}
}

// GetU16/GetU32/SetU16/SetU32 check alignment before consulting pages, since
// nothing upstream of Memory enforces it.
func (m *PageMemory) GetU16(address uint32) (uint16, error) {
	if address%2 != 0 {
		return 0, cpu.MemoryAlign(cpu.AlignHalf, address)
	}
	return composeU16(m, address)
}

func (m *PageMemory) GetU32(address uint32) (uint32, error) {
	if address%4 != 0 {
		return 0, cpu.MemoryAlign(cpu.AlignWord, address)
	}
	return composeU32(m, address)
}

func (m *PageMemory) SetU16(address uint32, value uint16) error {
	if address%2 != 0 {
		return cpu.MemoryAlign(cpu.AlignHalf, address)
	}
	return decomposeSetU16(m, address, value)
}

func (m *PageMemory) SetU32(address uint32, value uint32) error {
	if address%4 != 0 {
		return cpu.MemoryAlign(cpu.AlignWord, address)
	}
	return decomposeSetU32(m, address, value)
}
