package ports

// Write is one recorded output operation.
type Write struct {
	Port  uint16
	Width int
	Value uint32
}

// SimIO is the IO test double: outputs are recorded in order, inputs are
// served from programmed values (zero when unprogrammed, like floating bus
// lines that read back what was last driven).
type SimIO struct {
	Writes []Write

	vals map[uint16]uint32
}

func NewSimIO() *SimIO {
	return &SimIO{vals: make(map[uint16]uint32)}
}

// Program sets the value later In* calls on port will observe.
func (s *SimIO) Program(port uint16, v uint32) {
	s.vals[port] = v
}

func (s *SimIO) In8(port uint16) uint8   { return uint8(s.vals[port]) }
func (s *SimIO) In16(port uint16) uint16 { return uint16(s.vals[port]) }
func (s *SimIO) In32(port uint16) uint32 { return s.vals[port] }

func (s *SimIO) Out8(port uint16, v uint8) {
	s.vals[port] = uint32(v)
	s.Writes = append(s.Writes, Write{Port: port, Width: 1, Value: uint32(v)})
}

func (s *SimIO) Out16(port uint16, v uint16) {
	s.vals[port] = uint32(v)
	s.Writes = append(s.Writes, Write{Port: port, Width: 2, Value: uint32(v)})
}

func (s *SimIO) Out32(port uint16, v uint32) {
	s.vals[port] = v
	s.Writes = append(s.Writes, Write{Port: port, Width: 4, Value: v})
}
