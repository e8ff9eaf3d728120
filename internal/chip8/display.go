package chip8

// Display geometry and pixel intensities.
const (
	DisplayWidth  = 64
	DisplayHeight = 32

	PixelOff   = 0
	PixelOn    = 255
	PixelTrace = 128 // intensity left behind by an erased pixel in trace mode
)

// Framebuffer holds one intensity byte per display cell, indexed [y][x].
// Only fully lit cells take part in collision detection, intermediate values are cosmetic.
type Framebuffer [DisplayHeight][DisplayWidth]uint8

// Pixel returns the intensity at the given position.
func (f *Framebuffer) Pixel(x, y int) uint8 {
	return f[y][x]
}

// Lit returns whether the cell at the given position is fully lit.
func (f *Framebuffer) Lit(x, y int) bool {
	return f[y][x] == PixelOn
}

// Framebuffer returns a copy of the display.
func (m *Machine) Framebuffer() Framebuffer {
	return m.display
}

// Decay fades all intermediate trace intensities by amount, lit and dark cells are untouched.
// It is meant to be called by the host once per rendered frame.
func (m *Machine) Decay(amount uint8) {
	if amount == 0 {
		return
	}
	for y := range m.display {
		row := &m.display[y]
		for x, value := range row {
			if value == PixelOff || value == PixelOn {
				continue
			}
			if value <= amount {
				row[x] = PixelOff
			} else {
				row[x] = value - amount
			}
		}
	}
}

func (m *Machine) clearDisplay() {
	m.display = Framebuffer{}
}

// draw blits an n byte sprite from memory at I to the display. The start position
// wraps around, the sprite itself is clamped at the right edge and cut at the bottom.
// VF is set when a lit cell got erased. The result reports whether the screen should
// be refreshed.
func (m *Machine) draw(vx, vy, n uint8) (bool, error) {
	startX := int(vx % DisplayWidth)
	startY := int(vy % DisplayHeight)

	// rows below the bottom edge are never read
	rows := min(int(n), DisplayHeight-startY)
	if int(m.i)+rows > MemorySize {
		return false, ErrMemoryAccess
	}
	m.v[0xF] = 0

	drew := false
	collision := false
	for row := range rows {
		y := startY + row
		spriteByte := m.memory[int(m.i)+row]

		for bit := range 8 {
			x := min(startX+bit, DisplayWidth-1)
			on := spriteByte&(0x80>>bit) != 0
			cell := &m.display[y][x]

			switch {
			case *cell == PixelOn && on:
				if m.trace {
					*cell = PixelTrace
				} else {
					*cell = PixelOff
				}
				collision = true
			case *cell != PixelOn && on:
				*cell = PixelOn
				drew = true
			}
		}
	}

	if collision {
		m.v[0xF] = 1
	}
	return !m.reduceFlicker || drew, nil
}
