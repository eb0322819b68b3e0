package core

// RestoreMapperState implements the §4.8 post-load sequence's mapper
// step: the mapper is never trusted to carry its own code map across
// a snapshot, so the caller must reset it to defaults, load the raw
// state block, and then call ApplyMapping to rebuild the bank tables
// from that restored state.
func (c *Core) RestoreMapperState(data []byte) {
	c.mapper.Reset(c.cart, c.ctx)
	c.mapper.LoadStateBytes(data)
	c.mapper.ApplyMapping()
}

// EnableSRAM flips the bus's SRAM-readable window, the final step of
// the post-load sequence when a snapshot carried an SRAM block.
func (c *Core) EnableSRAM(enabled bool) {
	c.bus.SetSRAMEnabled(enabled)
}
