package player

import (
	"testing"

	"yaspg/sidplayfp/test"
)

func TestUndocumentedCoverage(t *testing.T) {
	for op, c := range opcodes {
		defined := undocumentedSet[op].operator != opNone
		test.ExpectEquality(t, defined, c == undocumented, op)
	}
}

func TestUndocumented(t *testing.T) {
	cases := []struct {
		name   string
		code   []byte
		setup  func(m *machine)
		check  func(t *testing.T, m *machine)
		length uint16
		cycles int
	}{
		{
			name: "LAX zero page",
			code: []byte{0xa7, 0x10},
			setup: func(m *machine) {
				m.mem.ram[0x10] = 0x55
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.cpu.Reg.A, uint8(0x55))
				test.ExpectEquality(t, m.cpu.Reg.X, uint8(0x55))
			},
			length: 2,
			cycles: 3,
		},
		{
			name: "LAX indirect indexed across a page",
			code: []byte{0xb3, 0x10},
			setup: func(m *machine) {
				m.mem.ram[0x10] = 0xf0
				m.mem.ram[0x11] = 0x20
				m.mem.ram[0x2110] = 0x77
				m.cpu.Reg.Y = 0x20
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.cpu.Reg.A, uint8(0x77))
				test.ExpectEquality(t, m.cpu.Reg.X, uint8(0x77))
			},
			length: 2,
			cycles: 6,
		},
		{
			name: "SAX absolute",
			code: []byte{0x8f, 0x00, 0x20},
			setup: func(m *machine) {
				m.cpu.Reg.A = 0xf0
				m.cpu.Reg.X = 0x3c
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.mem.ram[0x2000], uint8(0x30))
			},
			length: 3,
			cycles: 4,
		},
		{
			name: "DCP zero page",
			code: []byte{0xc7, 0x10},
			setup: func(m *machine) {
				m.mem.ram[0x10] = 0x43
				m.cpu.Reg.A = 0x42
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.mem.ram[0x10], uint8(0x42))
				test.ExpectEquality(t, m.cpu.Reg.Carry, true)
				test.ExpectEquality(t, m.cpu.Reg.Zero, true)
			},
			length: 2,
			cycles: 5,
		},
		{
			name: "ISC zero page",
			code: []byte{0xe7, 0x10},
			setup: func(m *machine) {
				m.mem.ram[0x10] = 0x0f
				m.cpu.Reg.A = 0x20
				m.cpu.Reg.Carry = true
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.mem.ram[0x10], uint8(0x10))
				test.ExpectEquality(t, m.cpu.Reg.A, uint8(0x10))
				test.ExpectEquality(t, m.cpu.Reg.Carry, true)
			},
			length: 2,
			cycles: 5,
		},
		{
			name: "SLO zero page",
			code: []byte{0x07, 0x10},
			setup: func(m *machine) {
				m.mem.ram[0x10] = 0x81
				m.cpu.Reg.A = 0x04
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.mem.ram[0x10], uint8(0x02))
				test.ExpectEquality(t, m.cpu.Reg.A, uint8(0x06))
				test.ExpectEquality(t, m.cpu.Reg.Carry, true)
			},
			length: 2,
			cycles: 5,
		},
		{
			name: "RLA zero page",
			code: []byte{0x27, 0x10},
			setup: func(m *machine) {
				m.mem.ram[0x10] = 0x81
				m.cpu.Reg.A = 0xff
				m.cpu.Reg.Carry = true
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.mem.ram[0x10], uint8(0x03))
				test.ExpectEquality(t, m.cpu.Reg.A, uint8(0x03))
				test.ExpectEquality(t, m.cpu.Reg.Carry, true)
			},
			length: 2,
			cycles: 5,
		},
		{
			name: "SRE zero page",
			code: []byte{0x47, 0x10},
			setup: func(m *machine) {
				m.mem.ram[0x10] = 0x03
				m.cpu.Reg.A = 0xff
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.mem.ram[0x10], uint8(0x01))
				test.ExpectEquality(t, m.cpu.Reg.A, uint8(0xfe))
				test.ExpectEquality(t, m.cpu.Reg.Carry, true)
				test.ExpectEquality(t, m.cpu.Reg.Sign, true)
			},
			length: 2,
			cycles: 5,
		},
		{
			name: "RRA zero page",
			code: []byte{0x67, 0x10},
			setup: func(m *machine) {
				m.mem.ram[0x10] = 0x02
				m.cpu.Reg.A = 0x10
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.mem.ram[0x10], uint8(0x01))
				test.ExpectEquality(t, m.cpu.Reg.A, uint8(0x11))
				test.ExpectEquality(t, m.cpu.Reg.Carry, false)
			},
			length: 2,
			cycles: 5,
		},
		{
			name: "NOP absolute indexed across a page",
			code: []byte{0x1c, 0xff, 0x10},
			setup: func(m *machine) {
				m.cpu.Reg.X = 0x01
				m.cpu.Reg.A = 0x12
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.cpu.Reg.A, uint8(0x12))
			},
			length: 3,
			cycles: 5,
		},
		{
			name: "ANC immediate",
			code: []byte{0x0b, 0x80},
			setup: func(m *machine) {
				m.cpu.Reg.A = 0xff
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.cpu.Reg.A, uint8(0x80))
				test.ExpectEquality(t, m.cpu.Reg.Carry, true)
			},
			length: 2,
			cycles: 2,
		},
		{
			name: "ALR immediate",
			code: []byte{0x4b, 0x03},
			setup: func(m *machine) {
				m.cpu.Reg.A = 0xff
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.cpu.Reg.A, uint8(0x01))
				test.ExpectEquality(t, m.cpu.Reg.Carry, true)
			},
			length: 2,
			cycles: 2,
		},
		{
			name: "SBX immediate",
			code: []byte{0xcb, 0x02},
			setup: func(m *machine) {
				m.cpu.Reg.A = 0x0f
				m.cpu.Reg.X = 0xf3
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.cpu.Reg.X, uint8(0x01))
				test.ExpectEquality(t, m.cpu.Reg.Carry, true)
			},
			length: 2,
			cycles: 2,
		},
		{
			name: "SBC immediate",
			code: []byte{0xeb, 0x01},
			setup: func(m *machine) {
				m.cpu.Reg.A = 0x05
				m.cpu.Reg.Carry = true
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.cpu.Reg.A, uint8(0x04))
				test.ExpectEquality(t, m.cpu.Reg.Carry, true)
			},
			length: 2,
			cycles: 2,
		},
		{
			name: "LAS absolute indexed",
			code: []byte{0xbb, 0x00, 0x20},
			setup: func(m *machine) {
				m.mem.ram[0x2000] = 0x3f
				m.cpu.Reg.SP = 0xf0
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.cpu.Reg.A, uint8(0x30))
				test.ExpectEquality(t, m.cpu.Reg.X, uint8(0x30))
				test.ExpectEquality(t, m.cpu.Reg.SP, uint8(0x30))
			},
			length: 3,
			cycles: 4,
		},
		{
			name: "SHX absolute indexed",
			code: []byte{0x9e, 0x00, 0x20},
			setup: func(m *machine) {
				m.cpu.Reg.X = 0xff
				m.cpu.Reg.Y = 0x01
			},
			check: func(t *testing.T, m *machine) {
				test.ExpectEquality(t, m.mem.ram[0x2001], uint8(0x21))
			},
			length: 3,
			cycles: 5,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := newMachine()
			copy(m.mem.ram[0x1000:], c.code)
			m.cpu.SetPC(0x1000)
			c.setup(m)

			cycles, ok := m.executeUndocumented(c.code[0])
			test.DemandEquality(t, ok, true)
			test.ExpectEquality(t, cycles, c.cycles)
			test.ExpectEquality(t, m.cpu.Reg.PC, 0x1000+c.length)
			c.check(t, m)
		})
	}
}
